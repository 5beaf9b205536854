package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalid 统计文件不符合约定结构
var ErrInvalid = errors.New("stats: invalid document")

// schema：统计管线输出的最小约束，只校验联接与着色依赖的字段
const schema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["provinceEng", "totalSeats", "suspiciousCount"],
    "properties": {
      "provinceEng": {"type": "string", "minLength": 1},
      "provinceThai": {"type": "string"},
      "totalSeats": {"type": "integer", "minimum": 0},
      "suspiciousCount": {"type": "integer", "minimum": 0},
      "dominantParty": {"type": "string"},
      "dominantPartyCode": {"type": "string"},
      "dominantPartyColor": {"type": "string"},
      "dominantPartySeats": {"type": "integer", "minimum": 0},
      "parties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["partyCode", "seats"],
          "properties": {
            "partyCode": {"type": "string"},
            "partyName": {"type": "string"},
            "partyColor": {"type": "string"},
            "seats": {"type": "integer", "minimum": 0}
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Validate：按 schema 校验原始 JSON，错误信息合并为一条
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Parse：校验并解码统计数组
func Parse(data []byte) ([]RegionStat, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var out []RegionStat
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("stats: decode: %w", err)
	}
	return out, nil
}

func LoadFile(path string) ([]RegionStat, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stats: read %s: %w", path, err)
	}
	return Parse(b)
}
