package oversound

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// IDs is a list of numeric ids as found in upstream payloads (genres, songs,
// collaborators, owner_* fields). Decoding skips entries that are not
// integers and treats null as empty. It always encodes as an array.
type IDs []int

func (ids *IDs) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		*ids = IDs{}
		return nil
	}
	out := make(IDs, 0, len(raw))
	for _, v := range raw {
		if id, ok := toInt(v); ok {
			out = append(out, id)
		}
	}
	*ids = out
	return nil
}

func (ids IDs) MarshalJSON() ([]byte, error) {
	if ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(ids))
}

// Contains reports whether id is in the list.
func (ids IDs) Contains(id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns the ids other than exclude, keeping order and stopping at limit entries.
// A limit <= 0 means no cap.
func (ids IDs) Without(exclude, limit int) IDs {
	out := IDs{}
	for _, v := range ids {
		if v == exclude {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, v)
	}
	return out
}

// JoinIDs renders ids the way the catalog list endpoints expect them: "1,2,3".
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}
