package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"roadnet/pkg/builder"
	"roadnet/pkg/datastructure"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

const (
	colSrcID    = "src_id"
	colDstID    = "dst_id"
	colLength   = "length"
	colCategory = "category"
	colNodeID   = "node_id"
	colSpeed    = "speed"
)

// LoadEdgeTable reads the edge table: src_id,dst_id,length,category. Column
// order is free, extra columns are ignored. A missing column or an
// unparseable length is a schema error.
func LoadEdgeTable(r io.Reader) ([]datastructure.RawEdge, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", builder.ErrSchema, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: edge table has no header row", builder.ErrSchema)
	}

	cols, err := columnIndex(records[0], colSrcID, colDstID, colLength, colCategory)
	if err != nil {
		return nil, err
	}

	edges := make([]datastructure.RawEdge, 0, len(records)-1)
	for line, rec := range records[1:] {
		length, err := strconv.ParseFloat(rec[cols[colLength]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: edge row %d has non-numeric length %q", builder.ErrSchema, line+2, rec[cols[colLength]])
		}
		edges = append(edges, datastructure.NewRawEdge(
			rec[cols[colSrcID]],
			rec[cols[colDstID]],
			length,
			rec[cols[colCategory]],
		))
	}
	return edges, nil
}

// LoadNodeTable reads the node table: node_id plus any number of extra
// columns, all kept verbatim as opaque attrs.
func LoadNodeTable(r io.Reader) ([]datastructure.RawNode, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", builder.ErrSchema, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: node table has no header row", builder.ErrSchema)
	}

	header := records[0]
	cols, err := columnIndex(header, colNodeID)
	if err != nil {
		return nil, err
	}

	nodes := make([]datastructure.RawNode, 0, len(records)-1)
	for _, rec := range records[1:] {
		var attrs map[string]string
		for i, name := range header {
			if i == cols[colNodeID] {
				continue
			}
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[name] = rec[i]
		}
		nodes = append(nodes, datastructure.NewRawNode(rec[cols[colNodeID]], attrs))
	}
	return nodes, nil
}

// LoadSpeedTable reads the category,speed lookup table.
func LoadSpeedTable(r io.Reader) (builder.SpeedTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", builder.ErrSchema, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: speed table has no header row", builder.ErrSchema)
	}

	cols, err := columnIndex(records[0], colCategory, colSpeed)
	if err != nil {
		return nil, err
	}

	speeds := make(builder.SpeedTable, len(records)-1)
	for line, rec := range records[1:] {
		speed, err := strconv.ParseFloat(rec[cols[colSpeed]], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: speed row %d has non-numeric speed %q", builder.ErrSchema, line+2, rec[cols[colSpeed]])
		}
		if speed <= 0 {
			return nil, fmt.Errorf("%w: category %q has non-positive speed %f", builder.ErrSchema, rec[cols[colCategory]], speed)
		}
		speeds[rec[cols[colCategory]]] = speed
	}
	return speeds, nil
}

func columnIndex(header []string, want ...string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range want {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", builder.ErrSchema, name)
		}
	}
	return cols, nil
}

// LoadTables reads the three csv files of one dataset from disk.
func LoadTables(edgeFile, nodeFile, speedFile string) ([]datastructure.RawEdge,
	[]datastructure.RawNode, builder.SpeedTable, error) {

	bar := progressbar.NewOptions(3,
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/2][reset] reading road network tables..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	edges, err := loadFile(edgeFile, LoadEdgeTable)
	if err != nil {
		return nil, nil, nil, err
	}
	bar.Add(1)

	var nodes []datastructure.RawNode
	if nodeFile != "" {
		nodes, err = loadFile(nodeFile, LoadNodeTable)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	bar.Add(1)

	var speeds builder.SpeedTable
	if speedFile != "" {
		speeds, err = loadFile(speedFile, LoadSpeedTable)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	bar.Add(1)

	return edges, nodes, speeds, nil
}

func loadFile[T any](path string, load func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return load(f)
}
