package directory_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oseko/dumpfile/internal/blockio"
	"github.com/oseko/dumpfile/internal/directory"
	"github.com/oseko/dumpfile/internal/dumpgen"
	"github.com/oseko/dumpfile/internal/format"
	"github.com/oseko/dumpfile/internal/rowcodec"
)

func decodeCatalog(t *testing.T, data []byte) (*directory.Catalog, error) {
	t.Helper()
	header, err := format.DecodeHeader(data[:format.MinBlockSize])
	require.NoError(t, err)
	text, err := format.NewTextDecoder(header.CharacterSet)
	require.NoError(t, err)
	reader := blockio.NewReader(&blockio.ByteSource{Data: data}, header.BlockSize)
	return directory.Decode(reader, header, text, slog.Default())
}

func TestDecodeScottCatalog(t *testing.T) {
	cat, err := decodeCatalog(t, dumpgen.Scott().Bytes())
	require.NoError(t, err)

	results := cat.Results()
	require.Len(t, results, 5)
	for _, res := range results {
		require.Nil(t, res.Skip)
		require.NotNil(t, res.Entry)
	}

	tables := cat.Tables()
	require.Len(t, tables, 3)
	require.Equal(t, "DEPT", tables[0].Name)
	require.Equal(t, "EMP", tables[1].Name)
	require.Equal(t, "SALGRADE", tables[2].Name)

	emp := tables[1]
	require.Equal(t, directory.KindTable, emp.Kind)
	require.Len(t, emp.Columns, 8)
	require.Equal(t, "EMPNO", emp.Columns[0].Name)
	require.Equal(t, rowcodec.TypeNumber, emp.Columns[0].Type)
	require.Equal(t, 4, emp.Columns[0].Precision)
	require.Equal(t, "HIREDATE", emp.Columns[4].Name)
	require.Equal(t, rowcodec.TypeDate, emp.Columns[4].Type)
	require.Equal(t, int64(14), emp.RowCount)
	require.NotZero(t, emp.FirstBlock)
	require.Contains(t, emp.Definition, "CREATE TABLE EMP")

	// Column ordinals are contiguous from zero in physical order.
	for _, table := range tables {
		for i, col := range table.Columns {
			require.Equal(t, i, col.Ordinal)
		}
	}

	// Non-table objects stay in the catalog but are not tables.
	require.Equal(t, directory.KindIndex, results[3].Entry.Kind)
	require.Equal(t, "PK_DEPT", results[3].Entry.Name)
	require.Contains(t, results[3].Entry.Definition, "UNIQUE INDEX")
}

func TestCatalogFind(t *testing.T) {
	cat, err := decodeCatalog(t, dumpgen.Scott().Bytes())
	require.NoError(t, err)

	dept, err := cat.Find("DEPT")
	require.NoError(t, err)
	require.Equal(t, "DEPT", dept.Name)

	// Matching is exact and case-sensitive.
	for _, name := range []string{"dept", "Dept", "BONUS", "PK_DEPT", ""} {
		_, err := cat.Find(name)
		var unknown *directory.UnknownTableError
		require.ErrorAs(t, err, &unknown, "name %q", name)
		require.Equal(t, name, unknown.Name)
	}
}

func TestDecodeSkipsTableWithoutSchema(t *testing.T) {
	b := dumpgen.Scott()
	// A table-kind entry with no column schema cannot be decoded, but
	// must not hide the rest of the catalog.
	b.Add(dumpgen.Object{Name: "BROKEN", Kind: directory.KindTable})

	cat, err := decodeCatalog(t, b.Bytes())
	require.NoError(t, err)

	results := cat.Results()
	require.Len(t, results, 6)
	skip := results[5].Skip
	require.NotNil(t, skip)
	require.Equal(t, "BROKEN", skip.Name)
	require.Contains(t, skip.Reason, "no column schema")

	require.Len(t, cat.Tables(), 3)
}

func TestDecodeSkipsUnsupportedColumnType(t *testing.T) {
	b := dumpgen.Scott()
	b.Add(dumpgen.Object{
		Name: "EXOTIC",
		Kind: directory.KindTable,
		Columns: []rowcodec.Column{
			{Name: "PAYLOAD", Type: rowcodec.Type(99), Ordinal: 0},
		},
	})

	cat, err := decodeCatalog(t, b.Bytes())
	require.NoError(t, err)

	skip := cat.Results()[5].Skip
	require.NotNil(t, skip)
	require.Contains(t, skip.Reason, "unsupported type code")
	_, err = cat.Find("EXOTIC")
	require.Error(t, err)
}

func TestDecodeSkipsDuplicateTableName(t *testing.T) {
	b := dumpgen.Scott()
	b.AddTable("DEPT", dumpgen.DeptColumns(), [][]any{{50, "DUP", "NOWHERE"}})

	cat, err := decodeCatalog(t, b.Bytes())
	require.NoError(t, err)

	require.Len(t, cat.Tables(), 3)
	skip := cat.Results()[5].Skip
	require.NotNil(t, skip)
	require.Contains(t, skip.Reason, "duplicate table name")
}

func TestDecodeSkipsCorruptMasterRow(t *testing.T) {
	b := dumpgen.Scott()
	data := b.Bytes()

	// Plant invalid UTF-8 inside the OBJ_KIND value of the PK_EMP
	// master row, a value-scoped corruption.
	off := b.Master.RowOffsets[4]
	// marker(1) + bitmap(1) + OBJ_NAME len(2)+"PK_EMP"(6) puts the
	// OBJ_KIND length prefix at off+10; its value bytes start at off+12.
	data[off+12] = 0xC3
	data[off+13] = 0x28

	cat, err := decodeCatalog(t, data)
	require.NoError(t, err)

	results := cat.Results()
	require.Len(t, results, 5)
	require.NotNil(t, results[4].Skip)
	require.Len(t, cat.Tables(), 3)
}

func TestDecodeHaltsWhenMasterRegionOutOfBounds(t *testing.T) {
	data := dumpgen.Scott().Bytes()
	// Point the master table past the end of the file.
	format.ByteOrder.PutUint64(data[16:24], 1<<20)

	_, err := decodeCatalog(t, data)
	var formatErr *format.FormatError
	require.ErrorAs(t, err, &formatErr)
	require.Contains(t, formatErr.Reason, "outside file bounds")
}

func TestDecodeWithoutMasterTable(t *testing.T) {
	b := dumpgen.NewBuilder()
	b.NoMasterTable = true

	cat, err := decodeCatalog(t, b.Bytes())
	require.NoError(t, err)
	require.Empty(t, cat.Results())
	require.Empty(t, cat.Tables())
}
