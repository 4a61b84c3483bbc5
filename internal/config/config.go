package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "FLEXKONTO_"

type Application struct {
	// Timezone decides which calendar day is "today".
	Timezone string   `koanf:"timezone"`
	Server   Server   `koanf:"server"`
	Cors     Cors     `koanf:"cors"`
	Database Database `koanf:"db"`
	Defaults Defaults `koanf:"defaults"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Cors struct {
	// AllowedOrigins is a comma separated list, "*" allows any origin.
	AllowedOrigins string `koanf:"allowedorigins"`
}

func (c Cors) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Defaults seed the account settings of users that have not saved any.
type Defaults struct {
	WeeklyTargetHours  float64 `koanf:"weeklytargethours"`
	YearlyVacationDays float64 `koanf:"yearlyvacationdays"`
}

func defaults() Application {
	return Application{
		Timezone: "Local",
		Server: Server{
			Addr: ":8181",
		},
		Cors: Cors{
			AllowedOrigins: "*",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "flexkonto",
			Pass:   "",
			Name:   "flexkonto",
			Schema: "flexkonto",
		},
		Defaults: Defaults{
			WeeklyTargetHours:  41,
			YearlyVacationDays: 25,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
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
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
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
