package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/memoriascard/backend/internal/domain/memorycard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeCardFile(t *testing.T, dir, id string) string {
	t.Helper()
	path := filepath.Join(dir, id+".input.json")
	body := `{"id":"` + id + `","eventName":"Aniversário","personName":"Ana","message":"Parabéns!","emoji":"🎂","theme":"mint"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCardctl_SaveGetListDelete(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "save", "-f", writeCardFile(t, dir, "card-1"))
	require.NoError(t, err)
	assert.Contains(t, out, "Card saved: card-1")

	out, err = run(t, dir, "", "get", "card-1")
	require.NoError(t, err)
	var card memorycard.MemoryCard
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	assert.Equal(t, "Ana", card.PersonName)
	assert.Equal(t, memorycard.Theme("mint"), card.Theme)

	_, err = run(t, dir, "", "save", "-f", writeCardFile(t, dir, "card-2"))
	require.NoError(t, err)

	out, err = run(t, dir, "", "list")
	require.NoError(t, err)
	var cards []memorycard.MemoryCard
	require.NoError(t, json.Unmarshal([]byte(out), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, "card-1", cards[0].ID)
	assert.Equal(t, "card-2", cards[1].ID)

	out, err = run(t, dir, "", "delete", "card-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Card deleted: card-1")

	_, err = run(t, dir, "", "get", "card-1")
	assert.Error(t, err)
}

func TestCardctl_SaveFromStdin(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, `{"id":"card-9","personName":"Bia"}`, "save", "-f", "-")
	require.NoError(t, err)

	out, err := run(t, dir, "", "get", "card-9")
	require.NoError(t, err)
	assert.Contains(t, out, "Bia")
}

func TestCardctl_SaveRejectsCardWithoutID(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, `{"personName":"Bia"}`, "save", "-f", "-")
	assert.ErrorContains(t, err, "card id is required")

	_, err = run(t, dir, "", "save")
	assert.Error(t, err)
}

func TestCardctl_SaveOverBudget(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "--budget", "16", "save", "-f", writeCardFile(t, dir, "card-1"))
	assert.ErrorContains(t, err, "was not saved")
}

func TestCardctl_UsageAndClear(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "save", "-f", writeCardFile(t, dir, "card-1"))
	require.NoError(t, err)

	out, err := run(t, dir, "", "usage")
	require.NoError(t, err)
	var report UsageReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Cards)
	assert.Positive(t, report.UsedBytes)
	assert.Equal(t, 5*1024*1024, report.BudgetBytes)
	assert.Greater(t, report.Percent, 0.0)

	_, err = run(t, dir, "", "clear")
	assert.ErrorContains(t, err, "--yes")

	out, err = run(t, dir, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Card store cleared")

	out, err = run(t, dir, "", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
