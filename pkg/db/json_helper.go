/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"encoding/json"
	"fmt"
)

// marshalMapToJSON serializes a metadata map for a jsonb column; nil maps
// become SQL NULL rather than the string "null".
func marshalMapToJSON(m map[string]string) (json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return payload, nil
}

// marshalAnyMapToJSON serializes a free-form details map for a jsonb column.
func marshalAnyMapToJSON(m map[string]any) (json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal details: %w", err)
	}

	return payload, nil
}

// unmarshalJSONToMap restores a jsonb metadata column; NULL yields nil.
func unmarshalJSONToMap(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[string]string)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return out, nil
}
