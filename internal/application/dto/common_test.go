package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := map[string]struct {
		in   dto.PageRequest
		want dto.PageRequest
	}{
		"vacía":           {dto.PageRequest{}, dto.PageRequest{Limit: dto.DefaultLimit}},
		"límite negativo": {dto.PageRequest{Limit: -5, Offset: 3}, dto.PageRequest{Limit: dto.DefaultLimit, Offset: 3}},
		"límite excesivo": {dto.PageRequest{Limit: 500}, dto.PageRequest{Limit: dto.MaxLimit}},
		"offset negativo": {dto.PageRequest{Limit: 10, Offset: -1}, dto.PageRequest{Limit: 10}},
		"dentro de rango": {dto.PageRequest{Limit: 100, Offset: 40}, dto.PageRequest{Limit: 100, Offset: 40}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p := tc.in
			p.DefaultPage()
			assert.Equal(t, tc.want, p)
		})
	}
}
