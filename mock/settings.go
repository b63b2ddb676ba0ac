package mock

import (
	"context"

	"github.com/docai/docai"
)

var _ docai.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of docai.SettingsService.
type SettingsService struct {
	GetFn       func(keyPath string) any
	SetFn       func(keyPath string, value any) error
	SettingsFn  func() docai.Settings
	ValidateFn  func(ctx context.Context) []string
	ExportEnvFn func(path string) error
	SummaryFn   func(ctx context.Context) (*docai.ConfigSummary, error)
}

func (s *SettingsService) Get(keyPath string) any {
	return s.GetFn(keyPath)
}

func (s *SettingsService) Set(keyPath string, value any) error {
	return s.SetFn(keyPath, value)
}

func (s *SettingsService) Settings() docai.Settings {
	if s.SettingsFn == nil {
		return docai.Settings{}
	}
	return s.SettingsFn()
}

func (s *SettingsService) Validate(ctx context.Context) []string {
	if s.ValidateFn == nil {
		return nil
	}
	return s.ValidateFn(ctx)
}

func (s *SettingsService) ExportEnv(path string) error {
	return s.ExportEnvFn(path)
}

func (s *SettingsService) Summary(ctx context.Context) (*docai.ConfigSummary, error) {
	return s.SummaryFn(ctx)
}
