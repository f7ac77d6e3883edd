package file

// Schema for the persisted snapshot. Unknown status or upi_method values
// are rejected here rather than surfacing later as impossible states.
const ledgerStateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ledger_state",
  "type": "object",
  "required": ["cards", "paymentHistory"],
  "properties": {
    "cards": {
      "type": "array",
      "items": { "$ref": "#/definitions/card" }
    },
    "paymentHistory": {
      "type": "array",
      "items": { "$ref": "#/definitions/payment" }
    }
  },
  "definitions": {
    "card": {
      "type": "object",
      "required": [
        "id", "bank", "card_number_masked", "total_due", "minimum_due",
        "due_date", "credit_limit", "available_credit", "transactions"
      ],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "bank": { "type": "string", "minLength": 1 },
        "card_number_masked": { "type": "string", "minLength": 1 },
        "total_due": { "type": "number", "minimum": 0 },
        "minimum_due": { "type": "number", "minimum": 0 },
        "due_date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
        "credit_limit": { "type": "number", "exclusiveMinimum": 0 },
        "available_credit": { "type": "number" },
        "transactions": {
          "type": "array",
          "items": { "$ref": "#/definitions/transaction" }
        }
      }
    },
    "transaction": {
      "type": "object",
      "required": ["id", "name", "date", "amount", "category"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
        "amount": { "type": "number", "exclusiveMinimum": 0 },
        "category": { "type": "string" }
      }
    },
    "payment": {
      "type": "object",
      "required": [
        "id", "transaction_id", "card_bank", "card_number_masked",
        "amount", "upi_method", "date", "status"
      ],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "transaction_id": { "type": "string", "pattern": "^TXN\\d+$" },
        "card_bank": { "type": "string", "minLength": 1 },
        "card_number_masked": { "type": "string", "minLength": 1 },
        "amount": { "type": "number", "exclusiveMinimum": 0 },
        "upi_method": { "enum": ["GOOGLE_PAY", "PHONE_PE", "PAYTM", "UPI_ID"] },
        "date": { "type": "string", "format": "date-time" },
        "status": { "enum": ["success", "pending", "failed"] }
      }
    }
  }
}`
