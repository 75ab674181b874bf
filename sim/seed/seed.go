// Package seed loads the JSON seed files a fresh simulation is bootstrapped
// from. Files are validated against embedded JSON Schemas before decoding,
// so a malformed seed fails with a precise pointer instead of a zero-valued
// world.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/bookstore-sim/bookstore-sim/sim"
)

const inventorySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["isbn", "title", "price", "quantity"],
    "properties": {
      "isbn": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "author": {"type": "string"},
      "genre": {"type": "string"},
      "price": {"type": "number", "minimum": 0},
      "quantity": {"type": "integer", "minimum": 0},
      "low_threshold": {"type": "integer", "minimum": 0}
    },
    "additionalProperties": false
  }
}`

const customersSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["customer_id"],
    "properties": {
      "customer_id": {"type": "string", "minLength": 1},
      "budget": {"type": "number", "minimum": 0}
    },
    "additionalProperties": false
  }
}`

type inventoryRecord struct {
	ISBN         string  `json:"isbn"`
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Genre        string  `json:"genre"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	LowThreshold *int    `json:"low_threshold"`
}

type customerRecord struct {
	CustomerID string  `json:"customer_id"`
	Budget     float64 `json:"budget"`
}

// FileSource is a sim.SeedSource over JSON seed files. CustomersPath may be
// empty; the engine then creates its stock customer population.
type FileSource struct {
	InventoryPath string
	CustomersPath string

	// DefaultThreshold fills in low_threshold when a record omits it.
	DefaultThreshold int
	// DefaultBudget fills in budget when a customer record omits it.
	DefaultBudget float64
}

// Load reads, validates, and resolves the seed files.
func (s *FileSource) Load() (sim.SeedSnapshot, error) {
	var snap sim.SeedSnapshot

	var items []inventoryRecord
	if err := loadValidated(s.InventoryPath, "inventory.schema.json", inventorySchema, &items); err != nil {
		return snap, err
	}
	for _, rec := range items {
		threshold := s.DefaultThreshold
		if rec.LowThreshold != nil {
			threshold = *rec.LowThreshold
		}
		snap.Items = append(snap.Items, sim.SeedItem{
			ISBN:         rec.ISBN,
			Title:        rec.Title,
			Author:       rec.Author,
			Genre:        rec.Genre,
			Price:        rec.Price,
			Quantity:     rec.Quantity,
			LowThreshold: threshold,
		})
	}

	// A missing customers file is fine: the engine creates its stock
	// customer population instead.
	if s.CustomersPath != "" && fileExists(s.CustomersPath) {
		var customers []customerRecord
		if err := loadValidated(s.CustomersPath, "customers.schema.json", customersSchema, &customers); err != nil {
			return snap, err
		}
		for _, rec := range customers {
			budget := rec.Budget
			if budget == 0 {
				budget = s.DefaultBudget
			}
			snap.Customers = append(snap.Customers, sim.SeedCustomer{ID: rec.CustomerID, Budget: budget})
		}
	}
	return snap, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadValidated reads a JSON file, validates it against the schema, and
// decodes it into out.
func loadValidated(path, schemaName, schema string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	compiled, err := jsonschema.CompileString(schemaName, schema)
	if err != nil {
		return fmt.Errorf("compile %s: %w", schemaName, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return json.Unmarshal(data, out)
}
