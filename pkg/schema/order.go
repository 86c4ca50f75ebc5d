package schema

import "time"

const OrderSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "order",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "payment_method", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "created_at", "type": {
			"type": "long", "logicalType": "timestamp-millis"
		}},
		{"name": "lines", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_line",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "unit_price", "type": "string"},
					{"name": "quantity", "type": "long"}
				]
			}
		}}
	]
}`

type (
	OrderV1 struct {
		OrderID       string        `avro:"order_id"`
		PaymentMethod string        `avro:"payment_method"`
		Total         string        `avro:"total"`
		CreatedAt     time.Time     `avro:"created_at"`
		Lines         []OrderLineV1 `avro:"lines"`
	}

	OrderLineV1 struct {
		ProductID string `avro:"product_id"`
		Name      string `avro:"name"`
		UnitPrice string `avro:"unit_price"`
		Quantity  int    `avro:"quantity"`
	}
)
