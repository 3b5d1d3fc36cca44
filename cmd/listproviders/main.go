package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ncecere/voice_translator/internal/catalog"
	"github.com/ncecere/voice_translator/internal/config"
	"github.com/ncecere/voice_translator/internal/providers"
)

func main() {
	configFile := flag.String("config", "", "path to translator.yaml; when set the active providers are marked")
	flag.Parse()

	active := map[string]string{}
	if *configFile != "" {
		cfg, err := config.Load(config.Options{ConfigFile: *configFile})
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		translator := catalog.NormalizeProviderSlug(cfg.Translation.Provider)
		speech := catalog.NormalizeProviderSlug(cfg.Speech.Provider)
		active[translator] = "translate"
		if speech == translator {
			active[speech] = "translate,speech"
		} else {
			active[speech] = "speech"
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCAPABILITIES\tACTIVE\tDESCRIPTION")
	for _, def := range providers.DefaultDefinitions() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.Name, strings.Join(def.Capabilities, ","), active[def.Name], def.Description)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("write output: %v", err)
	}
}
