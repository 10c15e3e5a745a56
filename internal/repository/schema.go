package repository

import "github.com/santhosh-tekuri/jsonschema/v5"

const catalogSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "brand", "price"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "brand": {"type": "string"},
      "price": {"type": "number", "minimum": 0},
      "discountPrice": {"type": "number", "minimum": 0},
      "rating": {"type": "number", "minimum": 0, "maximum": 5},
      "reviewCount": {"type": "integer", "minimum": 0},
      "notes": {"type": ["array", "null"], "items": {"type": "string"}},
      "family": {"type": "string"},
      "category": {"enum": ["Men", "Women", "Unisex"]},
      "image": {"type": "string"},
      "isNew": {"type": "boolean"},
      "description": {"type": "string"},
      "sizePrices": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["size", "price"],
          "properties": {
            "size": {"type": "string"},
            "price": {"type": "number"},
            "discountPrice": {"type": "number", "minimum": 0}
          }
        }
      }
    }
  }
}`

const ordersSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "items", "total"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "date": {"type": "string"},
      "name": {"type": "string"},
      "phone": {"type": "string"},
      "email": {"type": "string"},
      "total": {"type": "number", "minimum": 0},
      "items": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["name", "quantity"],
          "properties": {
            "name": {"type": "string"},
            "size": {"type": "string"},
            "quantity": {"type": "integer", "minimum": 1}
          }
        }
      }
    }
  }
}`

var (
	catalogSchema = jsonschema.MustCompileString("catalog.schema.json", catalogSchemaJSON)
	ordersSchema  = jsonschema.MustCompileString("orders.schema.json", ordersSchemaJSON)
)

// CatalogSchema validates the persisted product list.
func CatalogSchema() *jsonschema.Schema { return catalogSchema }

// OrdersSchema validates the persisted order ledger.
func OrdersSchema() *jsonschema.Schema { return ordersSchema }
