package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/domain"
)

type exportDocument struct {
	TimerState     timerRecord       `json:"timerState"`
	TimeEntries    []entryRecord     `json:"timeEntries"`
	ActiveSessions []sessionRecord   `json:"activeSessions"`
	Preferences    preferencesRecord `json:"preferences"`
	ExportedAt     string            `json:"exportedAt"`
}

// ExportData renders the full persisted state as an indented JSON document.
func (m *Manager) ExportData(ctx context.Context) ([]byte, error) {
	doc := exportDocument{
		TimerState:     toTimerRecord(m.TimerState(ctx)),
		TimeEntries:    []entryRecord{},
		ActiveSessions: []sessionRecord{},
		Preferences:    toPreferencesRecord(m.Preferences(ctx)),
		ExportedAt:     formatTime(m.now()),
	}
	for _, e := range m.TimeEntries(ctx) {
		doc.TimeEntries = append(doc.TimeEntries, toEntryRecord(e))
	}
	for _, s := range m.ActiveSessions(ctx) {
		doc.ActiveSessions = append(doc.ActiveSessions, toSessionRecord(s))
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	return out, nil
}

// ImportData restores a document produced by ExportData. Each section is
// applied independently; a missing or malformed section is skipped and
// logged. It returns false only when data is not a JSON object.
func (m *Manager) ImportData(ctx context.Context, data []byte) bool {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		m.logger.ErrorContext(ctx, "failed to import data", "error", err)
		return false
	}

	if raw, ok := sections["timerState"]; ok && !isNull(raw) {
		var rec timerRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			m.skipSection(ctx, "timerState", err)
		} else if s, err := rec.toDomain(); err != nil {
			m.skipSection(ctx, "timerState", err)
		} else {
			m.SaveTimerState(ctx, s)
		}
	}

	if raw, ok := sections["timeEntries"]; ok {
		var recs []entryRecord
		if err := json.Unmarshal(raw, &recs); err != nil || recs == nil {
			m.skipSection(ctx, "timeEntries", err)
		} else {
			entries := m.entriesFromRecords(ctx, recs)
			SortNewestFirst(entries)
			if m.SaveTimeEntries(ctx, entries) {
				m.entriesRev.Add(1)
			}
		}
	}

	if raw, ok := sections["activeSessions"]; ok {
		var recs []sessionRecord
		if err := json.Unmarshal(raw, &recs); err != nil || recs == nil {
			m.skipSection(ctx, "activeSessions", err)
		} else {
			var sessions []domain.ActiveSession
			for _, r := range recs {
				if s, err := r.toDomain(); err == nil {
					sessions = append(sessions, s)
				}
			}
			m.SaveActiveSessions(ctx, sessions)
		}
	}

	if raw, ok := sections["preferences"]; ok && !isNull(raw) {
		var rec preferencesRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			m.skipSection(ctx, "preferences", err)
		} else {
			m.SavePreferences(ctx, rec.toDomain())
		}
	}

	return true
}

func (m *Manager) skipSection(ctx context.Context, section string, err error) {
	m.logger.WarnContext(ctx, "skipping malformed import section", "section", section, "error", err)
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
