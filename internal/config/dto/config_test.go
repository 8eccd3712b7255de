package dto

import (
	"testing"
	"time"
)

func TestApplicationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ApplicationConfig
		wantErr bool
	}{
		{
			name:   "valid",
			config: ApplicationConfig{Application: ApplicationInfo{Name: "logarchive"}},
		},
		{
			name:    "missing name",
			config:  ApplicationConfig{},
			wantErr: true,
		},
		{
			name: "watch needs directory",
			config: ApplicationConfig{
				Application: ApplicationInfo{Name: "logarchive"},
				Sweep:       SweepConfig{Watch: true},
			},
			wantErr: true,
		},
		{
			name: "watch with directory",
			config: ApplicationConfig{
				Application: ApplicationInfo{Name: "logarchive"},
				Sweep:       SweepConfig{Watch: true, Directory: "/var/log/app"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestS3Config(t *testing.T) {
	tests := []struct {
		name    string
		config  S3Config
		wantErr bool
	}{
		{"valid", S3Config{Bucket: "b", Region: "us-east-1"}, false},
		{"missing bucket", S3Config{Region: "us-east-1"}, true},
		{"missing region", S3Config{Bucket: "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAzureConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  AzureConfig
		wantErr bool
	}{
		{"valid", AzureConfig{AccountName: "acct", Container: "logs"}, false},
		{"missing account", AzureConfig{Container: "logs"}, true},
		{"missing container", AzureConfig{AccountName: "acct"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotifyConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  NotifyConfig
		wantErr bool
	}{
		{"disabled", NotifyConfig{}, false},
		{"valid", NotifyConfig{Enabled: true, BootstrapServers: []string{"b:9092"}, Topic: "t"}, false},
		{"missing servers", NotifyConfig{Enabled: true, Topic: "t"}, true},
		{"missing topic", NotifyConfig{Enabled: true, BootstrapServers: []string{"b:9092"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurations(t *testing.T) {
	if got := (SweepConfig{DebounceMS: 750}).DebounceInterval(); got != 750*time.Millisecond {
		t.Errorf("DebounceInterval() = %v", got)
	}
	if got := (ShutdownConfig{GracePeriodSeconds: 15}).GracePeriod(); got != 15*time.Second {
		t.Errorf("GracePeriod() = %v", got)
	}
}
