package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/ncecere/voice_translator/internal/config"
)

func main() {
	configFile := flag.String("config", "", "path to translator.yaml")
	flag.Parse()

	cfg, err := config.Load(config.Options{ConfigFile: *configFile})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg.Masked()); err != nil {
		log.Fatalf("encode config: %v", err)
	}
}
