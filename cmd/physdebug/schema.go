package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"

	"github.com/gitchub12/gonk12new-sub000/config"
)

// buildSchemas describes the two files the runner reads, for editor completion and validation
func buildSchemas() map[string]*jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}

	tuning := reflector.Reflect(new(config.Tuning))
	tuning.Title = "Collision tuning"
	tuning.Description = "Overrides of the default collision and movement constants"

	scenario := reflector.Reflect(new(Scenario))
	scenario.Title = "Debug scenario"
	scenario.Description = "A level description stepped by physdebug"

	return map[string]*jsonschema.Schema{
		"tuning":   tuning,
		"scenario": scenario,
	}
}

func writeSchemas(out io.Writer) error {
	data, err := json.MarshalIndent(buildSchemas(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
