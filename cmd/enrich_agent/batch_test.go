package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-enrichment/internal/config"
	"github.com/jonathan/candidate-enrichment/internal/enrichment"
	"github.com/jonathan/candidate-enrichment/internal/schemas"
)

const weakRequestJSON = `{
	"resume_data": {"personal_info": {"name": "Charles Babbage"}, "skills": {"technical_skills": ["Docker"]}},
	"job_context": {"required_skills": ["Python"]}
}`

func TestEnrichBatchFile(t *testing.T) {
	e := enrichment.New(config.Default())
	path := writeFile(t, "batch.json", `{"requests": [`+weakRequestJSON+`, {"resume_data": {}}, `+requestJSON+`]}`)

	out, err := enrichBatchFile(context.Background(), e, path, 2, true)

	require.NoError(t, err)
	require.Len(t, out.Results, 3)
	assert.Equal(t, 2, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.NotEmpty(t, out.Results[1].Error)
	assert.Nil(t, out.Results[1].Result)

	require.Len(t, out.Ranking, 2)
	assert.Equal(t, 2, out.Ranking[0].Index)
	assert.Equal(t, "Ada Lovelace", out.Ranking[0].Name)
	assert.Equal(t, 0, out.Ranking[1].Index)
}

func TestEnrichBatchFile_NoRanking(t *testing.T) {
	e := enrichment.New(config.Default())
	path := writeFile(t, "batch.json", `{"requests": [`+requestJSON+`]}`)

	out, err := enrichBatchFile(context.Background(), e, path, 1, false)

	require.NoError(t, err)
	assert.Empty(t, out.Ranking)
}

func TestEnrichBatchFile_Errors(t *testing.T) {
	e := enrichment.New(config.Default())

	_, err := enrichBatchFile(context.Background(), e, writeFile(t, "empty.json", `{"requests": []}`), 1, false)
	var schemaErr *schemas.ValidationError
	assert.ErrorAs(t, err, &schemaErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = enrichBatchFile(ctx, e, writeFile(t, "batch.json", `{"requests": [`+requestJSON+`]}`), 1, false)
	assert.ErrorIs(t, err, context.Canceled)
}
