// Package chat implements the transport-neutral command surface: a message
// comes in as (user id, text), the matching operation runs, and the reply
// goes back as localized Markdown. The chat transport itself (Telegram,
// webhook, CLI) stays outside this package.
package chat

import (
	"strconv"
	"strings"
	"time"

	"reefficiency/internal/core"
	"reefficiency/internal/locale"
)

// Command is one parsed chat instruction. Name is empty for free text.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a message into command name and arguments. The
// "@botname" suffix used when addressing bots in group chats is dropped.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{}
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return Command{Name: strings.ToLower(name), Args: fields[1:]}
}

// replyError carries the message-catalog key (plus format arguments) for
// the localized reply a parse failure should produce.
type replyError struct {
	key  string
	args []any
}

func (e *replyError) Error() string { return e.key }

func replyErrf(key string, args ...any) *replyError {
	return &replyError{key: key, args: args}
}

// parseRecord turns "/catat <jenis> <kategori> <jumlah> [deskripsi...]"
// arguments into a transaction. The date is left zero so the ledger stamps
// it at save time.
func parseRecord(args []string) (core.Transaction, error) {
	if len(args) < 3 {
		return core.Transaction{}, replyErrf("usage_catat")
	}

	kind, ok := parseKind(args[0])
	if !ok {
		return core.Transaction{}, replyErrf("invalid_kind")
	}

	amount, err := core.ParseAmount(args[2])
	if err != nil {
		return core.Transaction{}, replyErrf("invalid_amount")
	}

	description := "-"
	if len(args) > 3 {
		description = strings.Join(args[3:], " ")
	}

	return core.Transaction{
		Kind:        kind,
		Category:    args[1],
		Description: description,
		Amount:      core.Money{Rupiah: amount},
	}, nil
}

func parseKind(s string) (core.TransactionKind, bool) {
	switch strings.ToLower(s) {
	case "pemasukan", "income":
		return core.Income, true
	case "pengeluaran", "expense", "expenditure":
		return core.Expenditure, true
	default:
		return "", false
	}
}

// ReportRequest is a resolved "/laporan" invocation. Month 0 requests the
// annual view.
type ReportRequest struct {
	Year  int
	Month int
}

// parseReport resolves "/laporan" arguments against the current time:
//
//	/laporan                  this month
//	/laporan <tahun>          annual view, 1900-2100
//	/laporan <bulan>          that month, last year when it is still ahead
//	/laporan <bulan> <tahun>  that exact month
//
// A single numeric argument outside the year range falls through to month
// name resolution, so "/laporan 5000" reports an invalid month.
func parseReport(args []string, now time.Time, lang locale.Language) (ReportRequest, error) {
	switch len(args) {
	case 0:
		return ReportRequest{Year: now.Year(), Month: int(now.Month())}, nil

	case 1:
		if year, ok := parseYear(args[0]); ok {
			if year > now.Year() {
				return ReportRequest{}, replyErrf("future_year", year)
			}
			return ReportRequest{Year: year}, nil
		}
		month, ok := locale.MonthNumber(args[0])
		if !ok {
			return ReportRequest{}, replyErrf("invalid_month")
		}
		year := now.Year()
		if month > int(now.Month()) {
			year--
		}
		return ReportRequest{Year: year, Month: month}, nil

	case 2:
		month, ok := locale.MonthNumber(args[0])
		if !ok {
			return ReportRequest{}, replyErrf("invalid_month")
		}
		year, ok := parseYear(args[1])
		if !ok {
			return ReportRequest{}, replyErrf("invalid_year")
		}
		if year > now.Year() || (year == now.Year() && month > int(now.Month())) {
			return ReportRequest{}, replyErrf("future_period", locale.MonthName(lang, month), year)
		}
		return ReportRequest{Year: year, Month: month}, nil

	default:
		return ReportRequest{}, replyErrf("too_many_args")
	}
}

func parseYear(s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 2100 {
		return 0, false
	}
	return year, true
}
