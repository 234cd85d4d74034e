package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	POSBaseURL        string `json:"posBaseURL"`
	ListenAddr        string `json:"listenAddr"`
	ExportFolderPath  string `json:"exportFolderPath"`
	OperatorDBPath    string `json:"operatorDBPath"`
	RequestTimeoutSec int    `json:"requestTimeoutSec"`
	LogFile           string `json:"logFile"`
	Debug             bool   `json:"debug"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./bcdash_config.json"

func defaults() Config {
	return Config{
		POSBaseURL:        "https://pos.doanquochoa.name.vn",
		ListenAddr:        ":8190",
		ExportFolderPath:  "./exports",
		OperatorDBPath:    "./bcdash.db",
		RequestTimeoutSec: 30,
		LogFile:           "./bcdash.log",
	}
}

func applyDefaults(c Config) Config {
	d := defaults()
	if c.POSBaseURL == "" {
		c.POSBaseURL = d.POSBaseURL
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.ExportFolderPath == "" {
		c.ExportFolderPath = d.ExportFolderPath
	}
	if c.OperatorDBPath == "" {
		c.OperatorDBPath = d.OperatorDBPath
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = d.RequestTimeoutSec
	}
	return c
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = defaults()
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = applyDefaults(tempCfg)

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	newCfg = applyDefaults(newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
