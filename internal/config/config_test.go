package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyHotReloadSwapsAnalytics(t *testing.T) {
	cfg := &Config{Analytics: AnalyticsConfig{StruggleAttempts: 3, RecomputeRetries: 3}}

	cfg.ApplyHotReload(&Config{Analytics: AnalyticsConfig{StruggleAttempts: 5, RecomputeRetries: 7}})

	got := cfg.AnalyticsSettings()
	assert.Equal(t, 5, got.StruggleAttempts)
	assert.Equal(t, 7, got.RecomputeRetries)
}

func TestAnalyticsSettingsConcurrentWithReload(t *testing.T) {
	cfg := &Config{Analytics: AnalyticsConfig{StruggleAttempts: 3}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cfg.ApplyHotReload(&Config{Analytics: AnalyticsConfig{StruggleAttempts: 5}})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := cfg.AnalyticsSettings()
				assert.Contains(t, []int{3, 5}, got.StruggleAttempts)
			}
		}()
	}
	wg.Wait()
}
