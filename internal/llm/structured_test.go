package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStructured(t *testing.T) {
	req := ExtractRequest{SchemaName: SchemaContract, Schema: ContractSchema()}
	valid := []byte(`{"contract_type":"MSA","parties_involved":["A","B"],"risk_analysis":"ok","overall_risk_level":"Low"}`)
	sloppy := []byte(`{"contract_type":"MSA","parties_involved":["A","B"],"risk_analysis":"ok","overall_risk_level":"low"}`)

	out, err := CheckStructured(valid, req, false, nil, "rid", time.Now())
	require.NoError(t, err)
	assert.Equal(t, valid, out)

	_, err = CheckStructured(sloppy, req, false, nil, "rid", time.Now())
	require.Error(t, err)

	out, err = CheckStructured(sloppy, req, true, nil, "rid", time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"overall_risk_level":"Low"`)

	_, err = CheckStructured([]byte("not json"), req, true, nil, "rid", time.Now())
	assert.Error(t, err)
}
