package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/teftimov/IOHanalyzer/pkg/apis/runmapping"
	"github.com/teftimov/IOHanalyzer/pkg/schema"
)

func main() {
	var (
		outputDir = flag.String("output", "api", "Output directory for generated schemas")
	)
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	generator := schema.NewGenerator()

	schemaJSON, err := generator.GenerateJSONSchema(runmapping.RunMapping{})
	if err != nil {
		log.Fatalf("Failed to generate schema for RunMapping: %v", err)
	}

	jsonFile := filepath.Join(*outputDir, "runmapping-v1.json")
	if err := os.WriteFile(jsonFile, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write JSON schema: %v", err)
	}

	fmt.Printf("Generated JSON schema: %s\n", jsonFile)

	yamlFile := filepath.Join(*outputDir, "runmapping-example.yaml")
	if err := os.WriteFile(yamlFile, []byte(yamlExample), 0644); err != nil {
		log.Fatalf("Failed to write YAML example: %v", err)
	}

	fmt.Printf("Generated YAML example: %s\n", yamlFile)
}

const yamlExample = `# RunMapping Example Configuration
# Binds the headers of an exported run table to run-record fields.

kind: RunMapping
version: v1
metadata:
  name: "IOHprofiler csv export"
  description: "Column bindings for tables written by IOHexperimenter"
columns:
  algorithm: "ID"
  function: "funcId"
  dimension: "DIM"
  run: "runId"
  eval: "evaluations"
  value: "best_y"
`
