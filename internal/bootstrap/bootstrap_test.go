package bootstrap

import (
	"testing"

	"go-bakery-trace/internal/model"

	"github.com/stretchr/testify/assert"
)

func codes(ps []model.Privilege) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Code)
	}
	return out
}

func TestPrivilegesFor(t *testing.T) {
	all := model.DefaultPrivileges

	assert.Len(t, PrivilegesFor(model.RoleQAManager, all), len(all))

	op := codes(PrivilegesFor(model.RoleOperator, all))
	assert.ElementsMatch(t, model.OperatorPrivileges, op)
	assert.NotContains(t, op, model.PrivRecallExecute)
	assert.NotContains(t, op, model.PrivLotQuality)

	assert.Empty(t, PrivilegesFor("AUDITOR", all))
}
