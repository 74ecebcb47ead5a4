package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
	"reefficiency/internal/render"
	"reefficiency/internal/services"
)

// Authorizer decides whether a chat user may use the bot at all.
type Authorizer interface {
	Allowed(ctx context.Context, userID int64) bool
}

// Recorder is the write path behind "/catat".
type Recorder interface {
	Record(ctx context.Context, tx core.Transaction, userID int64) (services.RecordReceipt, error)
}

// Reporter serves the assembled reports behind "/laporan".
type Reporter interface {
	Annual(ctx context.Context, year int) (core.Report, error)
	Monthly(ctx context.Context, year int, monthName string) (core.Report, error)
}

// Handler dispatches parsed commands and keeps per-user language
// preferences in memory for the lifetime of the process.
type Handler struct {
	auth     Authorizer
	recorder Recorder
	reports  Reporter

	defaultLang locale.Language

	mu    sync.RWMutex
	langs map[int64]locale.Language

	now func() time.Time
}

func NewHandler(auth Authorizer, recorder Recorder, reports Reporter, defaultLang locale.Language) *Handler {
	if defaultLang == "" {
		defaultLang = locale.Default
	}
	return &Handler{
		auth:        auth,
		recorder:    recorder,
		reports:     reports,
		defaultLang: defaultLang,
		langs:       make(map[int64]locale.Language),
		now:         time.Now,
	}
}

// HandleMessage processes one incoming message and returns the reply.
// Failures never escape as errors: every outcome, including rejections and
// backend trouble, is a localized reply string.
func (h *Handler) HandleMessage(ctx context.Context, userID int64, text string) string {
	lang := h.Language(userID)

	if h.auth != nil && !h.auth.Allowed(ctx, userID) {
		return locale.T(lang, "not_allowed")
	}

	cmd := ParseCommand(text)
	switch cmd.Name {
	case "start":
		return h.handleStart()
	case "help":
		return h.handleHelp(lang)
	case "lang":
		return h.handleLang(ctx, userID, lang, cmd.Args)
	case "catat":
		return h.handleRecord(ctx, userID, lang, cmd.Args)
	case "laporan":
		return h.handleReport(ctx, lang, cmd.Args)
	default:
		return locale.T(lang, "unknown_command")
	}
}

// Language returns the user's current reply language.
func (h *Handler) Language(userID int64) locale.Language {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if lang, ok := h.langs[userID]; ok {
		return lang
	}
	return h.defaultLang
}

func (h *Handler) setLanguage(userID int64, lang locale.Language) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.langs[userID] = lang
}

// handleStart greets in both languages so a new user can pick either.
func (h *Handler) handleStart() string {
	return locale.T(locale.Indonesian, "welcome") + "\n\n" + locale.T(locale.English, "welcome")
}

func (h *Handler) handleHelp(lang locale.Language) string {
	return locale.T(lang, "usage_catat") + "\n\n" +
		locale.T(lang, "usage_laporan") + "\n\n" +
		locale.T(lang, "usage_lang")
}

func (h *Handler) handleLang(ctx context.Context, userID int64, current locale.Language, args []string) string {
	if len(args) != 1 {
		return locale.T(current, "usage_lang")
	}
	lang, ok := locale.Normalize(args[0])
	if !ok {
		return locale.T(current, "usage_lang")
	}
	h.setLanguage(userID, lang)
	slog.InfoContext(ctx, "Language preference updated", "user_id", userID, "language", string(lang))
	return locale.T(lang, "language_set")
}

func (h *Handler) handleRecord(ctx context.Context, userID int64, lang locale.Language, args []string) string {
	tx, err := parseRecord(args)
	if err != nil {
		return replyFor(lang, err)
	}

	receipt, err := h.recorder.Record(ctx, tx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record transaction", "user_id", userID, "error", err)
		return locale.T(lang, "error_general")
	}

	return fmt.Sprintf(locale.T(lang, "recorded"),
		capitalize(args[0]),
		receipt.Transaction.Category,
		receipt.Transaction.Amount.Format(),
		receipt.Transaction.Description)
}

func (h *Handler) handleReport(ctx context.Context, lang locale.Language, args []string) string {
	req, err := parseReport(args, h.now(), lang)
	if err != nil {
		return replyFor(lang, err)
	}

	var rep core.Report
	if req.Month == 0 {
		rep, err = h.reports.Annual(ctx, req.Year)
	} else {
		rep, err = h.reports.Monthly(ctx, req.Year, locale.MonthName(locale.Indonesian, req.Month))
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build report",
			"year", req.Year,
			"month", req.Month,
			"error", err)
		return locale.T(lang, "error_general")
	}

	if req.Month == 0 {
		return render.Annual(rep, lang)
	}
	return render.Monthly(rep, lang)
}

// replyFor maps a parse failure onto its localized reply.
func replyFor(lang locale.Language, err error) string {
	var re *replyError
	if errors.As(err, &re) {
		if len(re.args) == 0 {
			return locale.T(lang, re.key)
		}
		return fmt.Sprintf(locale.T(lang, re.key), re.args...)
	}
	return locale.T(lang, "error_general")
}

// capitalize upper-cases the first letter of an already-validated kind
// token for the confirmation reply.
func capitalize(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
