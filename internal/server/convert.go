package server

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

// RecordToStruct encodes a record with its JSON field names.
func RecordToStruct(rec entity.UniformRecord) (*structpb.Struct, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("record to struct: %w", err)
	}
	return out, nil
}

// StructToRecord decodes a record. Amounts may be numbers or strings.
func StructToRecord(s *structpb.Struct) (entity.UniformRecord, error) {
	var rec entity.UniformRecord
	if s == nil {
		return rec, fmt.Errorf("empty record")
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return rec, fmt.Errorf("struct to json: %w", err)
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return rec, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}
