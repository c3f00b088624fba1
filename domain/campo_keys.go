package domain

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Campo key types used to match a program against the external campus catalog feed.
const (
	CampoKeyDegree      = "degree"
	CampoKeyAreaOfStudy = "area_of_study"
	CampoKeyLocation    = "location"
)

const hisCodeDelimiter = "|"

var supportedCampoKeys = map[string]struct{}{
	CampoKeyDegree:      {},
	CampoKeyAreaOfStudy: {},
	CampoKeyLocation:    {},
}

// CampoKeys maps the supported key types to external catalog keys.
type CampoKeys struct {
	values map[string]string
}

func EmptyCampoKeys() CampoKeys {
	return CampoKeys{values: map[string]string{}}
}

// CampoKeysFromArray rejects keys outside the supported set.
func CampoKeysFromArray(data map[string]string) (CampoKeys, error) {
	keys := EmptyCampoKeys()
	for key, value := range data {
		var err error
		if keys, err = keys.Set(key, value); err != nil {
			return EmptyCampoKeys(), err
		}
	}
	return keys, nil
}

// CampoKeysFromHISCode splits a pipe-delimited HIS code. Part 0 is the degree,
// part 1 the area of study and part 6 the location.
func CampoKeysFromHISCode(hisCode string) CampoKeys {
	parts := strings.Split(hisCode, hisCodeDelimiter)
	keys := EmptyCampoKeys()
	if len(parts) > 0 {
		keys.values[CampoKeyDegree] = parts[0]
	}
	if len(parts) > 1 {
		keys.values[CampoKeyAreaOfStudy] = parts[1]
	}
	if len(parts) > 6 {
		keys.values[CampoKeyLocation] = parts[6]
	}
	return keys
}

// Set returns a copy with key assigned.
func (c CampoKeys) Set(key, value string) (CampoKeys, error) {
	if _, ok := supportedCampoKeys[key]; !ok {
		return c, NewInvalidInputError(fmt.Sprintf("unsupported campo key %q", key))
	}
	next := maps.Clone(c.values)
	if next == nil {
		next = map[string]string{}
	}
	next[key] = value
	return CampoKeys{values: next}, nil
}

func (c CampoKeys) Get(key string) string {
	return c.values[key]
}

func (c CampoKeys) AsArray() map[string]string {
	out := maps.Clone(c.values)
	if out == nil {
		out = map[string]string{}
	}
	return out
}

func (c CampoKeys) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.AsArray())
}

func (c *CampoKeys) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys, err := CampoKeysFromArray(raw)
	if err != nil {
		return err
	}
	*c = keys
	return nil
}
