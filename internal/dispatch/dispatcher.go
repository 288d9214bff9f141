// Package dispatch executes resolved intents. Every handler returns a
// user-facing Turkish response string under every input; store mutations are
// confined to the note and reminder handlers.
package dispatch

import (
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"asistan/internal/domain"
	"asistan/internal/store"
)

const (
	respGreeting     = "Merhaba! Size nasıl yardımcı olabilirim?"
	respGoodbye      = "Görüşürüz! İyi günler dilerim."
	respThanks       = "Rica ederim! Her zaman yardımcı olmaktan mutluluk duyarım."
	respHelp         = "Yapabileceklerim: Saat/tarih bilgisi, hesaplama, not alma, hatırlatıcı, çalışma önerileri ve daha fazlası!"
	respName         = "Ben Türkçe sesli asistanınızım. Bana istediğiniz ismi verebilirsiniz!"
	respUnknown      = "Anlayamadım, lütfen başka şekilde ifade eder misiniz?"
	respGeneric      = "İlginç bir soru, ama şu an cevaplayamıyorum."
	respNoteAsk      = "Ne not almamı istiyorsunuz?"
	respNoNotes      = "Henüz kaydedilmiş notunuz yok."
	respNoPendingDel = "Silinecek not bulunamadı."
	respNotesCleared = "Tüm notlar silindi."
	respNoReminders  = "Aktif hatırlatıcınız bulunmuyor."
	respCalcHelp     = "Hesaplama yapamadım. Örnek: '5 artı 3' veya '10 çarpı 2'"
	respReminderHelp = "Zaman belirtmediniz. Örnek: '30 dakika sonra hatırlat' veya 'yarın 14.30'da hatırlat'"
)

var (
	dayNames = []string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

	monthNames = []string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
		"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"}
)

type Dispatcher struct {
	notes     *store.Notes
	reminders *store.Reminders
	clock     func() time.Time
	logger    *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Dispatcher)

// WithClock fixes the dispatcher's notion of now, for tests.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) { d.clock = clock }
}

// WithRand overrides the source behind study advice and motivation picks.
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) { d.rng = rng }
}

func New(notes *store.Notes, reminders *store.Reminders, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notes:     notes,
		reminders: reminders,
		clock:     time.Now,
		logger:    logger,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch maps a resolved intent to its handler. The switch is exhaustive
// over the closed intent set; catalog tags outside it get the generic reply.
func (d *Dispatcher) Dispatch(intent domain.Intent, text string, confidence float64) string {
	d.logger.Debug("dispatching intent", "intent", intent, "confidence", confidence)

	switch intent {
	case domain.IntentTime:
		return d.handleTime()
	case domain.IntentDate:
		return d.handleDate()
	case domain.IntentCalculator:
		return d.handleCalculator(text)
	case domain.IntentNoteAdd:
		return d.handleNoteAdd(text)
	case domain.IntentNoteList:
		return d.handleNoteList()
	case domain.IntentNoteDelete:
		return d.handleNoteDelete()
	case domain.IntentReminderAdd:
		return d.handleReminderAdd(text)
	case domain.IntentReminderList:
		return d.handleReminderList()
	case domain.IntentStudyAdvice:
		return d.pick(studyTips)
	case domain.IntentStudyTimer:
		return d.handleStudyTimer(text)
	case domain.IntentMotivate:
		return d.pick(motivationQuotes)
	case domain.IntentGreeting:
		return respGreeting
	case domain.IntentGoodbye:
		return respGoodbye
	case domain.IntentThanks:
		return respThanks
	case domain.IntentHelp:
		return respHelp
	case domain.IntentName:
		return respName
	case domain.IntentUnknown:
		return respUnknown
	default:
		return respGeneric
	}
}

func (d *Dispatcher) handleTime() string {
	return fmt.Sprintf("Şu an saat %s", d.clock().Format("15:04"))
}

func (d *Dispatcher) handleDate() string {
	now := d.clock()
	day := dayNames[(int(now.Weekday())+6)%7]
	month := monthNames[now.Month()-1]
	return fmt.Sprintf("Bugün %s, %d %s %d", day, now.Day(), month, now.Year())
}

var noteVerbsRe = regexp.MustCompile(`(?i)(not\s+al|not\s+tut|kaydet|yaz|hatırla)`)

func stripNoteVerbs(text string) string {
	return strings.TrimSpace(noteVerbsRe.ReplaceAllString(text, ""))
}

func (d *Dispatcher) handleNoteAdd(text string) string {
	noteText := stripNoteVerbs(text)
	if utf8.RuneCountInString(noteText) < 3 {
		return respNoteAsk
	}

	note, err := d.notes.Append(noteText, d.clock())
	if err != nil {
		// The in-memory store kept the note; the reply still confirms.
		d.logger.Warn("note persist failed", "note_id", note.ID, "error", err)
	}
	return fmt.Sprintf("Not alındı: '%s'", noteText)
}

func (d *Dispatcher) handleNoteList() string {
	notes := d.notes.List()
	if len(notes) == 0 {
		return respNoNotes
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Toplam %d notunuz var:\n\n", len(notes))
	start := len(notes) - 5
	if start < 0 {
		start = 0
	}
	for _, note := range notes[start:] {
		fmt.Fprintf(&sb, "• %s\n", note.Text)
	}
	if len(notes) > 5 {
		fmt.Fprintf(&sb, "\n(Ve %d not daha...)", len(notes)-5)
	}
	return sb.String()
}

func (d *Dispatcher) handleNoteDelete() string {
	if d.notes.Len() == 0 {
		return respNoPendingDel
	}
	if _, err := d.notes.Clear(); err != nil {
		d.logger.Warn("note store clear persist failed", "error", err)
	}
	return respNotesCleared
}

func (d *Dispatcher) handleReminderAdd(text string) string {
	due, phrase, expr, ok := parseReminderTime(text, d.clock())
	if !ok {
		return respReminderHelp
	}

	label := extractReminderLabel(text, expr)
	reminder, err := d.reminders.Append(label, due, d.clock())
	if err != nil {
		d.logger.Warn("reminder persist failed", "reminder_id", reminder.ID, "error", err)
	}
	return fmt.Sprintf("Hatırlatıcı eklendi: '%s' - %s", label, phrase)
}

func (d *Dispatcher) handleReminderList() string {
	reminders := d.reminders.List()
	if len(reminders) == 0 {
		return respNoReminders
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Toplam %d hatırlatıcınız var:\n\n", len(reminders))
	for _, reminder := range reminders {
		display := reminder.Time
		if due, err := time.ParseInLocation(domain.TimeLayout, reminder.Time, time.Local); err == nil {
			display = due.Format("02.01.2006 15:04")
		}
		fmt.Fprintf(&sb, "• %s - %s\n", reminder.Text, display)
	}
	return sb.String()
}

func (d *Dispatcher) pick(options []string) string {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return options[d.rng.Intn(len(options))]
}
