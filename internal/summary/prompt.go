package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chat-summary-api/internal/models"
)

// Limits applied while rendering statistics into the prompt
const (
	maxTopAuthors        = 5
	maxReplyPairs        = 5
	maxRecentMessages    = 20
	maxMessageRunes      = 100
	maxPreviousSummaries = 3
	maxSummaryRunes      = 300
	maxMemories          = 10
)

// coreMessageTypes are always listed, in this order, even when absent
var coreMessageTypes = []struct {
	key   string
	label string
}{
	{"text", "Текст"},
	{"sticker", "Стикеры"},
	{"photo", "Фото"},
	{"voice", "Голосовые"},
}

// SystemPrompt sets the persona and the structure of the summary
const SystemPrompt = `Ты ведущий криминальной хроники "Дежурная часть" из 90-х, только с чёрным юмором и самоиронией.
Тебе нужно составить сводку происшествий в чате за последние несколько часов.

СТИЛЬ:
- Сарказм и ирония без перегибов
- Бытовые отсылки: панельки, маршрутки, подъезды, ларьки
- Драматизация самых обычных событий
- Клички и прозвища для участников
- Уместный криминальный жаргон

СТРУКТУРА:
1. 📺 Эпичное приветствие, как в выпуске новостей
2. 🔥 Главные события: кто о чём говорил, какие темы горели
3. 👑 Герои дня: кто писал больше всех, кто отмалчивался
4. 💕 Социальные связи: кто с кем общался, подозрительные парочки
5. 📊 Статистика беспредела: цифры с комментариями
6. 🎭 Особые номинации
7. 📡 Заключение в духе криминальных новостей

ПРАВИЛА:
- Объём 300-600 слов
- Эмодзи для структуры
- Конкретные имена участников и темы из данных
- Если данных мало, иронизируй над этим
- Не выдумывай факты, которых нет в данных`

// userPromptIntro precedes the rendered statistics in the user message
const userPromptIntro = "Составь криминальную сводку по этим данным чата:\n\n"

// BuildUserPrompt renders the request into the user message sent to the model
func BuildUserPrompt(req *models.SummaryRequest) string {
	stats := req.Statistics
	if stats == nil {
		stats = &models.StatisticsPayload{}
	}

	var sb strings.Builder

	sb.WriteString(userPromptIntro)
	sb.WriteString(fmt.Sprintf("ДАННЫЕ ЧАТА \"%s\" ЗА ПОСЛЕДНИЕ %d ЧАСОВ:\n\n", req.ChatTitle, req.Hours))

	sb.WriteString("📊 ОБЩАЯ СТАТИСТИКА:\n")
	sb.WriteString(fmt.Sprintf("- Всего сообщений: %d\n", stats.TotalMessages))
	sb.WriteString("- Типы: ")
	sb.WriteString(formatMessageTypes(stats.MessageTypes))
	sb.WriteString("\n\n")

	sb.WriteString("👥 ТОП АВТОРОВ (по количеству сообщений):\n")
	writeSection(&sb, formatTopAuthors(stats.TopAuthors), "Нет данных")

	sb.WriteString("💬 КТО С КЕМ ОБЩАЛСЯ (ответы):\n")
	writeSection(&sb, formatReplyPairs(stats.ReplyPairs), "Нет данных о диалогах")

	sb.WriteString("⏰ АКТИВНОСТЬ:\n")
	writeSection(&sb, formatPeakHour(stats.HourlyActivity), "Нет данных")

	sb.WriteString("📝 ВЫБОРКА ПОСЛЕДНИХ СООБЩЕНИЙ:\n")
	writeSection(&sb, formatRecentMessages(stats.RecentMessages), "Нет текстовых сообщений")

	if previous := formatPreviousSummaries(req.PreviousSummaries); previous != "" {
		sb.WriteString("🗂 ПРОШЛЫЕ СВОДКИ (не повторяйся, можно ссылаться):\n")
		writeSection(&sb, previous, "")
	}

	if memories := formatMemories(req.Memories); memories != "" {
		sb.WriteString("🧠 ЧТО ИЗВЕСТНО ОБ УЧАСТНИКАХ:\n")
		writeSection(&sb, memories, "")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// writeSection writes body or the placeholder followed by a blank line
func writeSection(sb *strings.Builder, body, placeholder string) {
	if body == "" {
		body = placeholder + "\n"
	}
	sb.WriteString(body)
	sb.WriteString("\n")
}

func formatMessageTypes(types map[string]int) string {
	parts := make([]string, 0, len(coreMessageTypes)+len(types))
	known := make(map[string]bool, len(coreMessageTypes))
	for _, t := range coreMessageTypes {
		known[t.key] = true
		parts = append(parts, fmt.Sprintf("%s: %d", t.label, types[t.key]))
	}

	others := make([]string, 0, len(types))
	for key := range types {
		if !known[key] {
			others = append(others, key)
		}
	}
	sort.Strings(others)
	for _, key := range others {
		parts = append(parts, fmt.Sprintf("%s: %d", key, types[key]))
	}

	return strings.Join(parts, ", ")
}

func formatTopAuthors(authors []models.TopAuthor) string {
	var sb strings.Builder
	for i, author := range authors {
		if i == maxTopAuthors {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %d сообщений\n",
			i+1, displayName(author.FirstName, author.Username), author.MsgCount))
	}
	return sb.String()
}

func formatReplyPairs(pairs []models.ReplyPair) string {
	var sb strings.Builder
	for i, pair := range pairs {
		if i == maxReplyPairs {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s → %s: %d ответов\n",
			displayName(pair.FirstName, pair.Username),
			displayName(pair.ReplyToFirstName, pair.ReplyToUsername),
			pair.Replies))
	}
	return sb.String()
}

// formatPeakHour reports the busiest hour, the smallest label wins a tie
func formatPeakHour(hourly map[string]int) string {
	if len(hourly) == 0 {
		return ""
	}

	hours := make([]string, 0, len(hourly))
	for hour := range hourly {
		hours = append(hours, hour)
	}
	sort.Strings(hours)

	peak := hours[0]
	for _, hour := range hours[1:] {
		if hourly[hour] > hourly[peak] {
			peak = hour
		}
	}

	return fmt.Sprintf("Пик активности: %s:00 (%d сообщений)\n", peak, hourly[peak])
}

func formatRecentMessages(messages []models.RecentMessage) string {
	if len(messages) > maxRecentMessages {
		messages = messages[len(messages)-maxRecentMessages:]
	}

	var sb strings.Builder
	for _, msg := range messages {
		text := messageText(msg)
		if text == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("[%s]: %s\n",
			displayName(msg.FirstName, msg.Username), truncateRunes(text, maxMessageRunes)))
	}
	return sb.String()
}

// messageText picks what a message said, falling back to media descriptions
func messageText(msg models.RecentMessage) string {
	if text := strings.TrimSpace(msg.MessageText); text != "" {
		return text
	}
	if text := strings.TrimSpace(msg.VoiceTranscription); text != "" {
		return "🎤 " + text
	}
	if text := strings.TrimSpace(msg.ImageDescription); text != "" {
		return "📷 " + text
	}
	if emoji := strings.TrimSpace(msg.StickerEmoji); emoji != "" {
		return "стикер " + emoji
	}
	return ""
}

func formatPreviousSummaries(summaries []models.PreviousSummary) string {
	var sb strings.Builder
	for i, s := range summaries {
		if i == maxPreviousSummaries {
			break
		}
		text := strings.TrimSpace(s.SummaryText)
		if text == "" {
			continue
		}
		text = strings.ReplaceAll(truncateRunes(text, maxSummaryRunes), "\n", " ")
		if s.TopTalkerName != "" {
			sb.WriteString(fmt.Sprintf("- (главный болтун: %s) %s\n", s.TopTalkerName, text))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", text))
		}
	}
	return sb.String()
}

func formatMemories(memories []models.Memory) string {
	var sb strings.Builder
	for i, m := range memories {
		if i == maxMemories {
			break
		}
		text := strings.TrimSpace(m.MemoryText)
		if text == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s %s\n", displayName(m.FirstName, m.Username), text))
	}
	return sb.String()
}

// displayName falls back to the username, then to a placeholder
func displayName(firstName, username string) string {
	if name := strings.TrimSpace(firstName); name != "" {
		return name
	}
	if name := strings.TrimSpace(username); name != "" {
		return "@" + name
	}
	return "Аноним"
}

// truncateRunes cuts s to at most n runes without splitting a character
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
