package app

import (
	"sync/atomic"

	"github.com/atmouse-/gensokyoradio/internal/domain"
)

// SettingsStore holds the live notification settings.
// Reads are lock-free; an update replaces the whole value.
type SettingsStore struct {
	v atomic.Pointer[domain.NotifySettings]
}

// NewSettingsStore creates a store holding s.
func NewSettingsStore(s domain.NotifySettings) *SettingsStore {
	st := &SettingsStore{}
	st.v.Store(&s)
	return st
}

// NotifySettings returns the current settings.
func (st *SettingsStore) NotifySettings() domain.NotifySettings {
	return *st.v.Load()
}

// UpdateNotifySettings replaces the current settings.
func (st *SettingsStore) UpdateNotifySettings(s domain.NotifySettings) {
	st.v.Store(&s)
}
