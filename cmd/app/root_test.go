package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"image-processing-app/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		level     logrus.Level
		formatter logrus.Formatter
	}{
		{"default", config.Config{}, logrus.InfoLevel, &logrus.JSONFormatter{}},
		{"debug", config.Config{Debug: true}, logrus.DebugLevel, &logrus.TextFormatter{}},
		{"debug json", config.Config{Debug: true, LogFormat: "json"}, logrus.DebugLevel, &logrus.JSONFormatter{}},
		{"text", config.Config{LogFormat: "text"}, logrus.InfoLevel, &logrus.TextFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := initLogger(&tt.cfg)
			assert.Equal(t, tt.level, logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.Formatter)
		})
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"config", "debug", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a.png", "b.png"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"a.png"}))
}
