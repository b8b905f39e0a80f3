package export

import (
	"errors"
	"eventdesk/internal/model"
	"eventdesk/internal/monitoring"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	MsgNothingToExport = "No registrations to export."
	maxSheetName       = 31
)

var ErrNothingToExport = errors.New("nothing to export")

// FileName is the attachment name offered for a download.
func FileName(format string, now time.Time) string {
	return "event_registrations_" + now.Format(time.DateOnly) + "." + format
}

func groups(format string, regs []model.Registration) ([]model.EventGroup, error) {
	if len(regs) == 0 {
		monitoring.TrackExport(format, "empty")
		return nil, ErrNothingToExport
	}
	return model.GroupByEvent(regs), nil
}

func track(format string, err error) error {
	if err != nil {
		monitoring.TrackExport(format, "failed")
		return err
	}
	monitoring.TrackExport(format, "ok")
	return nil
}

var sheetReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// sheetNames derives one sheet name per group: forbidden characters are
// replaced, names are cut to 31 characters and clashes get a numeric suffix.
// Clashes are detected case-insensitively.
func sheetNames(gs []model.EventGroup) []string {
	seen := make(map[string]struct{}, len(gs))
	names := make([]string, 0, len(gs))
	for _, g := range gs {
		base := strings.TrimSpace(sheetReplacer.Replace(g.EventName))
		base = strings.Trim(base, "'")
		if base == "" {
			base = "Event " + strconv.Itoa(g.EventID)
		}
		name := cutSheetName(base, maxSheetName)
		for n := 2; ; n++ {
			if _, dup := seen[strings.ToLower(name)]; !dup {
				break
			}
			suffix := " (" + strconv.Itoa(n) + ")"
			name = cutSheetName(base, maxSheetName-len(suffix)) + suffix
		}
		seen[strings.ToLower(name)] = struct{}{}
		names = append(names, name)
	}
	return names
}

// cutSheetName truncates and then drops what the cut exposed at the end.
// Excel rejects a sheet name that ends with an apostrophe.
func cutSheetName(s string, max int) string {
	return strings.TrimRight(truncate(s, max), " '")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
