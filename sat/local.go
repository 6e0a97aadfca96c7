package sat

import (
	"strings"
	"time"
)

type moreTimeHandler struct{ synchronous }

func (moreTimeHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	return nil, newResponse(cmd, -1, Success)
}

type localInfoHandler struct{ synchronous }

func (localInfoHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*ProvideLocalInfoParams)
	switch p.Info {
	case LocalInfoDateTime:
		tr := newResponse(cmd, -1, Success)
		tr.DateTime = dateTimeZone(m.conf.Now())
		return nil, tr
	case LocalInfoLanguage:
		tr := newResponse(cmd, -1, Success)
		tr.Language = m.language()
		return nil, tr
	}
	return nil, m.reject(cmd, BeyondMeCapabilities)
}

// language is the two letter code of the user's preferred language.
func (m *Manager) language() string {
	lang, err := m.kv.Get(KeyLanguage)
	if err != nil || len(strings.TrimSpace(lang)) < 2 {
		lang = m.conf.Language
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) < 2 {
		return "en"
	}
	return lang[:2]
}

// swappedBCD encodes 0-99 with the units digit in the high nibble.
func swappedBCD(v int) byte {
	return byte(v%10)<<4 | byte(v/10%10)
}

// dateTimeZone renders t as YY MM DD hh mm ss TZ. The time zone is the
// standard offset in quarter hours, with bit 3 set for west of GMT.
func dateTimeZone(t time.Time) []byte {
	_, offset := t.Zone()
	if t.IsDST() {
		offset -= 3600
	}
	var sign byte
	if offset < 0 {
		sign = 0x08
		offset = -offset
	}
	return []byte{
		swappedBCD(t.Year() % 100),
		swappedBCD(int(t.Month())),
		swappedBCD(t.Day()),
		swappedBCD(t.Hour()),
		swappedBCD(t.Minute()),
		swappedBCD(t.Second()),
		swappedBCD(offset/900) | sign,
	}
}

type languageHandler struct{ respondOnDisplay }

func (languageHandler) build(m *Manager, cmd *Command) (*Notification, *TerminalResponse) {
	p := cmd.Params.(*LanguageNotificationParams)
	n, tr := m.accept(cmd, "", true)
	if tr != nil {
		return nil, tr
	}
	if p.Specific {
		n.Language = strings.ToLower(p.Language)
	}
	return n, nil
}
