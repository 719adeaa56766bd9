package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, rowCh <-chan []string, errCh <-chan error) [][]string {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	return rows
}

func TestStreamCSV_Basic(t *testing.T) {
	in := "a,b,c\n1,2,3\n4,5,6\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(in), CSVOptions{})
	rows := collect(t, rowCh, errCh)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
}

func TestStreamCSV_HeaderChannel(t *testing.T) {
	in := "country,1981,1982\nKenya,1.0,2.0\n"
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(in), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})
	rows := collect(t, rowCh, errCh)
	assert.Equal(t, []string{"country", "1981", "1982"}, <-headerCh)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kenya", rows[0][0])
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	in := " a , b \n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(in), CSVOptions{TrimSpace: true})
	rows := collect(t, rowCh, errCh)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

func TestStreamCSV_RaggedRows(t *testing.T) {
	in := "a,b,c\nx\n1,2,3,4\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(in), CSVOptions{})
	rows := collect(t, rowCh, errCh)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
	assert.Len(t, rows[2], 4)
}

func TestStreamCSV_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rowCh, errCh := StreamCSV(ctx, strings.NewReader("a,b\n"), CSVOptions{})
	for range rowCh {
	}
	err := <-errCh
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
