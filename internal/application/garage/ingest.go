package garage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"evexpert-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"
)

//go:embed schema/listing.schema.json
var listingSchemaJSON string

var listingSchema = jsonschema.MustCompileString("listing.schema.json", listingSchemaJSON)

// DecodeDocument validates a raw car_analysis_results document against the
// ingest schema and decodes it. Any id in the payload is discarded; the store assigns ids.
func DecodeDocument(raw []byte) (*domain.Listing, error) {
	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := listingSchema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	// Store-side ids from older backends are not UUIDs; drop before decoding.
	fields := generic.(map[string]interface{})
	delete(fields, "id")
	integralFields(fields, "mileage", "year", "owners")
	clean, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc domain.Listing
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc.ID = uuid.Nil
	// raw may be a reused request buffer.
	doc.RawDocument = append(datatypes.JSON(nil), bytes.TrimSpace(raw)...)
	return &doc, nil
}

// integralFields rewrites numbers like 45000.0 as 45000 so they decode into
// integer fields. The schema has already rejected non-integral values.
func integralFields(fields map[string]interface{}, keys ...string) {
	for _, k := range keys {
		n, ok := fields[k].(json.Number)
		if !ok {
			continue
		}
		if _, err := n.Int64(); err == nil {
			continue
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			continue
		}
		fields[k] = json.Number(strconv.FormatInt(int64(f), 10))
	}
}
