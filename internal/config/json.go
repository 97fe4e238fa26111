package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case JSON keys
// and string durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Crypto struct {
		RecoveryCodeCount int      `json:"recovery_code_count"`
		UnlockRate        float64  `json:"unlock_rate"`
		UnlockBurst       int      `json:"unlock_burst"`
		OperationTimeout  Duration `json:"operation_timeout"`
	} `json:"crypto,omitempty"`

	Resilience struct {
		FailureThreshold int      `json:"failure_threshold"`
		Window           Duration `json:"window"`
		ResetTimeout     Duration `json:"reset_timeout"`
		JanitorInterval  Duration `json:"janitor_interval"`
		IdleTTL          Duration `json:"idle_ttl"`
	} `json:"resilience,omitempty"`

	Session struct {
		IdleTimeout Duration `json:"idle_timeout"`
	} `json:"session,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		Mode           string   `json:"mode"`
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Token          string   `json:"token"`
	} `json:"adapter,omitempty"`

	Log struct {
		Path  string `json:"path"`
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			Version:       jsonCfg.App.Version,
		},
		Crypto: Crypto{
			RecoveryCodeCount: jsonCfg.Crypto.RecoveryCodeCount,
			UnlockRate:        jsonCfg.Crypto.UnlockRate,
			UnlockBurst:       jsonCfg.Crypto.UnlockBurst,
			OperationTimeout:  time.Duration(jsonCfg.Crypto.OperationTimeout),
		},
		Resilience: Resilience{
			FailureThreshold: jsonCfg.Resilience.FailureThreshold,
			Window:           time.Duration(jsonCfg.Resilience.Window),
			ResetTimeout:     time.Duration(jsonCfg.Resilience.ResetTimeout),
			JanitorInterval:  time.Duration(jsonCfg.Resilience.JanitorInterval),
			IdleTTL:          time.Duration(jsonCfg.Resilience.IdleTTL),
		},
		Session: Session{
			IdleTimeout: time.Duration(jsonCfg.Session.IdleTimeout),
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: LocalDB{DSN: jsonCfg.Storage.Local.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			Mode:           jsonCfg.Adapter.Mode,
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Token:          jsonCfg.Adapter.Token,
		},
		Log: Log{
			Path:  jsonCfg.Log.Path,
			Level: jsonCfg.Log.Level,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
