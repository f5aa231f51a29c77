package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	// BackendConfig points at the LMS REST backend the builder syncs with.
	BackendConfig struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}

	// UploadConfig holds the max accepted size (in bytes) per upload kind.
	UploadConfig struct {
		MaxVideoSize    int64
		MaxAudioSize    int64
		MaxDocumentSize int64
		MaxImageSize    int64
	}

	SessionsConfig struct {
		MaxIdle time.Duration
	}

	StubConfig struct {
		Address string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		WorkDir      string
		Server       ServerConfig
		Backend      BackendConfig
		Upload       UploadConfig
		Sessions     SessionsConfig
		Stub         StubConfig
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Masomo Course Builder")
	conf.SetDefault("build", "develop")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("backend.baseURL", "http://localhost:8001")
	conf.SetDefault("backend.token", "")
	conf.SetDefault("backend.timeout", 2*time.Minute)
	conf.SetDefault("upload.maxVideoSize", 500<<20)
	conf.SetDefault("upload.maxAudioSize", 100<<20)
	conf.SetDefault("upload.maxDocumentSize", 50<<20)
	conf.SetDefault("upload.maxImageSize", 5<<20)
	conf.SetDefault("sessions.maxIdle", 2*time.Hour)
	conf.SetDefault("stub.address", ":8001")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)
	// server.address -> <ENV>_SERVER_ADDRESS
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		Build:        conf.GetString("build"),
		RollbarToken: conf.GetString("rollbarToken"),
		WorkDir:      wd,
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			Host:            conf.GetString("server.host"),
			DebugHost:       conf.GetString("server.debugHost"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  conf.GetBool("server.disableReqLogs"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(conf.GetString("backend.baseURL"), "/"),
			Token:   conf.GetString("backend.token"),
			Timeout: conf.GetDuration("backend.timeout"),
		},
		Upload: UploadConfig{
			MaxVideoSize:    conf.GetInt64("upload.maxVideoSize"),
			MaxAudioSize:    conf.GetInt64("upload.maxAudioSize"),
			MaxDocumentSize: conf.GetInt64("upload.maxDocumentSize"),
			MaxImageSize:    conf.GetInt64("upload.maxImageSize"),
		},
		Sessions: SessionsConfig{
			MaxIdle: conf.GetDuration("sessions.maxIdle"),
		},
		Stub: StubConfig{
			Address: conf.GetString("stub.address"),
		},
	}
}
