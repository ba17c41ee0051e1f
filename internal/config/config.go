package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

type Application struct {
	Host     string   `koanf:"host"`
	Port     int      `koanf:"port"`
	Store    Store    `koanf:"store"`
	Database Database `koanf:"db"`
	Display  Display  `koanf:"display"`
	Cors     Cors     `koanf:"cors"`
}

// Store selects where clients and payments live. "postgres" uses Database, "remote" talks to an
// external REST API exposing /clients and /payments.
type Store struct {
	Backend string `koanf:"backend"`
	Remote  Remote `koanf:"remote"`
}

type Remote struct {
	BaseUrl string        `koanf:"baseurl"`
	Timeout time.Duration `koanf:"timeout"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Display struct {
	Timezone string `koanf:"timezone"`
	Currency string `koanf:"currency"`
}

type Cors struct {
	Origins []string `koanf:"origins"`
}

func Defaults() Application {
	return Application{
		Host: "http://localhost:3000",
		Port: 8181,
		Store: Store{
			Backend: BackendPostgres,
			Remote: Remote{
				BaseUrl: "http://localhost:3001",
				Timeout: 10 * time.Second,
			},
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "billbook",
			Pass:   "",
			Name:   "billbook",
			Schema: "billbook",
		},
		Display: Display{
			Timezone: "Asia/Kolkata",
			Currency: "₹",
		},
		Cors: Cors{
			Origins: []string{"http://localhost:3000"},
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "BILLBOOK_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "BILLBOOK_")), "_", ".")
			if k == "cors.origins" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured display timezone, falling back to UTC.
func (d Display) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		log.Warnf("unknown display timezone %q, using UTC: %v", d.Timezone, err)
		return time.UTC
	}
	return loc
}
