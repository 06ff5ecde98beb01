package directory

import (
	"strings"

	"coinscope/internal/domain"
)

// Maps are the lookup tables derived from one coin list. Keys are lowercase, values canonical ids.
type Maps struct {
	ByID     map[string]string
	ByName   map[string]string
	BySymbol map[string]string
}

// BuildMaps derives the id, name and symbol tables from coins. On a key collision the
// coin that comes first in list order keeps the key and later duplicates are dropped.
func BuildMaps(coins []domain.Coin) Maps {
	m := Maps{
		ByID:     make(map[string]string, len(coins)),
		ByName:   make(map[string]string, len(coins)),
		BySymbol: make(map[string]string, len(coins)),
	}
	for _, c := range coins {
		putFirst(m.ByID, strings.ToLower(c.ID), c.ID)
		putFirst(m.ByName, strings.ToLower(c.Name), c.ID)
		putFirst(m.BySymbol, strings.ToLower(c.Symbol), c.ID)
	}
	return m
}

func putFirst(m map[string]string, key, id string) {
	if key == "" {
		return
	}
	if _, taken := m[key]; !taken {
		m[key] = id
	}
}
