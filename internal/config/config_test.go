package config

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfig(t *testing.T) {
	s := []byte(`service:
  name: 'TestServiceName'
  sap_service: 'http://localhost:9091'
  print_footer: 'Generated by rfp-service'
server:
  port: 8080
  read_timeout_seconds: 30
  write_timeout_seconds: 40
  idle_timeout_seconds: 120
database:
  use: inmemory
security:
  fixed_token:
    api: 'some-api-token-must-be-long-enough'
  oidc:
    token_cookie_name: 'JWT'
    admin_role: 'admin'
  cors:
    disable: true
    allow_origin: 'http://localhost:8000'
logging:
  severity: INFO
sap_sync:
  first_run_delay_seconds: 5
  interval_minutes: 30
`)

	b := bytes.NewBuffer(s)

	conf, err := UnmarshalFromYamlConfiguration(b)
	require.NoError(t, err)

	logRecording := strings.Builder{}
	logFunc := func(format string, v ...interface{}) {
		logRecording.WriteString(fmt.Sprintf(format, v...))
		logRecording.WriteString("\n")
	}
	err = Validate(conf, logFunc)
	require.Equal(t, "", logRecording.String())
	require.NoError(t, err)

	require.NotNil(t, conf)
	require.Equal(t, "TestServiceName", conf.Service.Name)
	require.Equal(t, "http://localhost:9091", conf.Service.SapService)
	require.Equal(t, "", conf.Server.BaseAddress)
	require.Equal(t, 8080, conf.Server.Port)
	require.Equal(t, 30, conf.Server.ReadTimeout)
	require.Equal(t, 40, conf.Server.WriteTimeout)
	require.Equal(t, 120, conf.Server.IdleTimeout)
	require.Equal(t, Inmemory, conf.Database.Use)
	require.Equal(t, "some-api-token-must-be-long-enough", conf.Security.Fixed.Api)
	require.Equal(t, "JWT", conf.Security.Oidc.TokenCookieName)
	require.Equal(t, "admin", conf.Security.Oidc.AdminRole)
	require.True(t, conf.Security.Cors.DisableCors)
	require.Equal(t, "INFO", conf.Logging.Severity)
	require.Equal(t, 5, conf.SapSync.FirstRunDelaySeconds)
	require.Equal(t, 30, conf.SapSync.IntervalMinutes)
}

func TestUnmarshalConfigAppliesDefaults(t *testing.T) {
	s := []byte(`security:
  fixed_token:
    api: 'some-api-token-must-be-long-enough'
  oidc:
    admin_role: 'admin'
`)

	conf, err := UnmarshalFromYamlConfiguration(bytes.NewBuffer(s))
	require.NoError(t, err)

	require.Equal(t, 8080, conf.Server.Port)
	require.Equal(t, Inmemory, conf.Database.Use)
	require.Equal(t, "INFO", conf.Logging.Severity)
	require.Equal(t, 60, conf.SapSync.IntervalMinutes)

	require.NoError(t, Validate(conf, func(format string, v ...interface{}) {}))
}

func TestValidateCollectsErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(conf *Application)
		expectedKey string
	}{
		{
			name: "Should reject unknown database type",
			mutate: func(conf *Application) {
				conf.Database.Use = "cloud"
			},
			expectedKey: "database.use",
		},
		{
			name: "Should reject mysql without credentials",
			mutate: func(conf *Application) {
				conf.Database.Use = Mysql
			},
			expectedKey: "database.username",
		},
		{
			name: "Should reject out of range port",
			mutate: func(conf *Application) {
				conf.Server.Port = 0
			},
			expectedKey: "server.port",
		},
		{
			name: "Should reject short api token",
			mutate: func(conf *Application) {
				conf.Security.Fixed.Api = "short"
			},
			expectedKey: "security.fixed_token.api",
		},
		{
			name: "Should reject sap service url with trailing slash",
			mutate: func(conf *Application) {
				conf.Service.SapService = "http://localhost:9091/"
			},
			expectedKey: "service.sap_service",
		},
		{
			name: "Should reject unknown severity",
			mutate: func(conf *Application) {
				conf.Logging.Severity = "TRACE"
			},
			expectedKey: "logging.severity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := newConfigWithDefaults()
			conf.Security.Fixed.Api = "some-api-token-must-be-long-enough"
			conf.Security.Oidc.AdminRole = "admin"
			tt.mutate(conf)

			logRecording := strings.Builder{}
			logFunc := func(format string, v ...interface{}) {
				logRecording.WriteString(fmt.Sprintf(format, v...))
				logRecording.WriteString("\n")
			}

			err := Validate(conf, logFunc)
			require.Error(t, err)
			require.Contains(t, logRecording.String(), tt.expectedKey)
		})
	}
}
