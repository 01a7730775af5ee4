package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "laurel-engine", cfg.AppName)
	assert.Equal(t, 0.1, cfg.MatchScoreThreshold)
	assert.Equal(t, 4, cfg.MatchWorkerCount)
	assert.Equal(t, 100, cfg.RecordBatchSize)
	assert.Equal(t, "namePartTokens", cfg.SearchIndexName)
}

func TestConfig_TypeLists(t *testing.T) {
	t.Run("SplitsAndTrims", func(t *testing.T) {
		cfg := Config{LastNameLocalTypes: "surname, 100 ,,family"}
		assert.Equal(t, []string{"surname", "100", "family"}, cfg.LastNameTypes())
	})

	t.Run("EmptyListIsNil", func(t *testing.T) {
		cfg := Config{}
		assert.Nil(t, cfg.OrgNameTypes())
	})

	t.Run("DefaultsParse", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.LastNameTypes())
		assert.NotEmpty(t, cfg.FirstNameTypes())
		assert.NotEmpty(t, cfg.OrgNameTypes())
	})
}
