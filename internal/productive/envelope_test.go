package productive

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_SingleResource(t *testing.T) {
	raw := `{
		"data": {
			"id": "101",
			"type": "tasks",
			"attributes": {"title": "Fix login bug", "closed": false, "initial_estimate": 120},
			"relationships": {
				"project": {"data": {"id": "7", "type": "projects"}},
				"assignee": {"data": null}
			}
		},
		"included": [
			{"id": "7", "type": "projects", "attributes": {"name": "Website"}}
		]
	}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	task, ok := env.First()
	require.True(t, ok)
	assert.Equal(t, "101", task.ID)
	assert.Equal(t, "tasks", task.Type)
	assert.Equal(t, "Fix login bug", task.String("title"))
	assert.False(t, task.Bool("closed"))

	estimate, ok := task.Number("initial_estimate")
	require.True(t, ok)
	assert.Equal(t, 120.0, estimate)

	assert.Equal(t, "7", task.RelatedID("project"))
	assert.Equal(t, "", task.RelatedID("assignee"), "null linkage resolves to empty id")
	assert.Equal(t, "", task.RelatedID("missing"))

	project, ok := env.FindIncluded("projects", "7")
	require.True(t, ok)
	assert.Equal(t, "Website", project.String("name"))

	_, ok = env.FindIncluded("projects", "999")
	assert.False(t, ok)
}

func TestEnvelope_ResourceArrayWithMeta(t *testing.T) {
	raw := `{
		"data": [
			{"id": "1", "type": "tasks", "attributes": {"title": "A"}},
			{"id": "2", "type": "tasks", "attributes": {"title": "B"}}
		],
		"meta": {"total_count": 57, "current_page": 2, "total_pages": 3}
	}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	require.Len(t, env.Data, 2)
	assert.Equal(t, "A", env.Data[0].String("title"))
	assert.Equal(t, "B", env.Data[1].String("title"))

	require.NotNil(t, env.Meta)
	assert.Equal(t, 57, env.Meta.TotalCount)
	assert.Equal(t, 2, env.Meta.CurrentPage)
	assert.Equal(t, 3, env.Meta.TotalPages)
}

func TestEnvelope_NullData(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"data": null}`), &env))

	_, ok := env.First()
	assert.False(t, ok)
}

func TestRelationship_ArrayLinkage(t *testing.T) {
	raw := `{
		"data": {
			"id": "5", "type": "pages",
			"attributes": {},
			"relationships": {
				"contributors": {"data": [
					{"id": "11", "type": "people"},
					{"id": "12", "type": "people"}
				]}
			}
		}
	}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))

	page, ok := env.First()
	require.True(t, ok)
	// RelatedID returns the first linkage of a to-many relationship.
	assert.Equal(t, "11", page.RelatedID("contributors"))
}

func TestQuery_Builder(t *testing.T) {
	values := NewQuery().
		Filter("project_id", "7").
		Filter("status", "").
		Page(2).
		PageSize(30).
		Include("project", "assignee").
		Sort("-created_at").
		Values()

	require.NotNil(t, values)
	assert.Equal(t, "7", values.Get("filter[project_id]"))
	assert.False(t, values.Has("filter[status]"), "empty filters are skipped")
	assert.Equal(t, "2", values.Get("page[number]"))
	assert.Equal(t, "30", values.Get("page[size]"))
	assert.Equal(t, "project,assignee", values.Get("include"))
	assert.Equal(t, "-created_at", values.Get("sort"))
}

func TestQuery_EmptyIsNil(t *testing.T) {
	assert.Nil(t, NewQuery().Values())
	assert.Nil(t, NewQuery().Filter("x", "").Page(0).Values())
}
