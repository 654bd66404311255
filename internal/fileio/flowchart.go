package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"flowdraw/internal/diagram"
	"flowdraw/internal/scene"
)

// Legacy boxes without an explicit size are at least this many characters
// wide.
const minLegacyBoxWidth = 8

// ImportFlowchartFile reads a legacy FLOWCHART file from disk.
func ImportFlowchartFile(path string, newID func() string) (*diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := ImportFlowchart(f, newID)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return d, nil
}

// ImportFlowchart converts the legacy character-grid FLOWCHART format into a
// diagram. Character cells become 8×16 world units, free texts become label
// nodes and the saved pan offset becomes the viewport translation.
// Connection waypoints are dropped. A nil newID uses random UUIDs.
func ImportFlowchart(r io.Reader, newID func() string) (*diagram.Diagram, error) {
	if newID == nil {
		newID = uuid.NewString
	}
	d := diagram.Default(time.Now())
	d.Metadata.Name = "Imported Flowchart"

	scanner := bufio.NewScanner(r)
	next := func(what string) (string, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("missing %s: %w", what, ErrInvalidFlowchart)
		}
		return scanner.Text(), nil
	}

	header, err := next("header")
	if err != nil {
		return nil, err
	}
	if header != "FLOWCHART" {
		return nil, fmt.Errorf("bad header %q: %w", header, ErrInvalidFlowchart)
	}

	line, err := next("boxes header")
	if err != nil {
		return nil, err
	}
	boxCount, err := count(line, "BOXES:")
	if err != nil {
		return nil, err
	}
	boxIDs := make([]string, 0, boxCount)
	for range boxCount {
		line, err := next("box data")
		if err != nil {
			return nil, err
		}
		n, err := parseBox(line)
		if err != nil {
			return nil, err
		}
		n.ID = newID()
		boxIDs = append(boxIDs, n.ID)
		d.Nodes = append(d.Nodes, n)
	}

	line, err = next("connections header")
	if err != nil {
		return nil, err
	}
	connCount, err := count(line, "CONNECTIONS:")
	if err != nil {
		return nil, err
	}
	for range connCount {
		line, err := next("connection data")
		if err != nil {
			return nil, err
		}
		e, ok, err := parseConnection(line, boxIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		e.ID = newID()
		d.Edges = append(d.Edges, e)
	}

	// Everything after the connections is optional.
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "TEXTS:"):
			n, err := count(line, "TEXTS:")
			if err != nil {
				continue
			}
			for i := 0; i < n && scanner.Scan(); i++ {
				if node, ok := parseText(scanner.Text()); ok {
					node.ID = newID()
					d.Nodes = append(d.Nodes, node)
				}
			}
		case strings.HasPrefix(line, "HIGHLIGHTS:"):
			// Cell highlights have no counterpart in a diagram.
			n, _ := count(line, "HIGHLIGHTS:")
			for i := 0; i < n && scanner.Scan(); i++ {
			}
		case strings.HasPrefix(line, "PAN:"):
			parts := strings.Split(strings.TrimPrefix(line, "PAN:"), ",")
			if len(parts) >= 2 {
				panX, _ := strconv.Atoi(parts[0])
				panY, _ := strconv.Atoi(parts[1])
				d.Viewport.TranslateX = -float64(panX * scene.CellWidth)
				d.Viewport.TranslateY = -float64(panY * scene.CellHeight)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func count(line, prefix string) (int, error) {
	if !strings.HasPrefix(line, prefix) {
		return 0, fmt.Errorf("expected %s got %q: %w", prefix, line, ErrInvalidFlowchart)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(line, prefix))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q: %w", line, ErrInvalidFlowchart)
	}
	return n, nil
}

func decodeText(parts []string) string {
	return strings.ReplaceAll(strings.Join(parts, ","), "\\n", "\n")
}

// parseBox accepts X,Y,W,H,Text, the older X,Y,W,H,Color,Text and the
// oldest X,Y,Text where the size follows from the text.
func parseBox(line string) (diagram.Node, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return diagram.Node{}, fmt.Errorf("box %q: %w", line, ErrInvalidFlowchart)
	}
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])

	var w, h int
	var text string
	switch {
	case len(parts) >= 6:
		w, _ = strconv.Atoi(parts[2])
		h, _ = strconv.Atoi(parts[3])
		text = decodeText(parts[5:])
	case len(parts) >= 5:
		w, _ = strconv.Atoi(parts[2])
		h, _ = strconv.Atoi(parts[3])
		text = decodeText(parts[4:])
	default:
		text = decodeText(parts[2:])
	}
	if w <= 0 || h <= 0 {
		w, h = fitText(text, minLegacyBoxWidth, 2, 2)
	}
	return cellNode(x, y, w, h, text, diagram.NodeStyle{Shape: diagram.ShapeRectangle}), nil
}

// parseConnection reads From,To or From,To,FX,FY,TX,TY,N[,Arrows][|waypoints].
// Connections to unknown boxes are skipped. A lone start arrow is expressed by
// reversing the edge.
func parseConnection(line string, boxIDs []string) (diagram.Edge, bool, error) {
	main, _, _ := strings.Cut(line, "|")
	parts := strings.Split(main, ",")
	if len(parts) != 2 && len(parts) < 7 {
		return diagram.Edge{}, false, fmt.Errorf("connection %q: %w", line, ErrInvalidFlowchart)
	}
	from, _ := strconv.Atoi(parts[0])
	to, _ := strconv.Atoi(parts[1])
	if from < 0 || from >= len(boxIDs) || to < 0 || to >= len(boxIDs) {
		return diagram.Edge{}, false, nil
	}

	flags := 2
	if len(parts) >= 8 {
		flags, _ = strconv.Atoi(parts[7])
	}
	arrowFrom, arrowTo := flags&1 != 0, flags&2 != 0

	e := diagram.Edge{Source: boxIDs[from], Target: boxIDs[to], Edge: true}
	switch {
	case arrowFrom && !arrowTo:
		e.Source, e.Target = e.Target, e.Source
	case !arrowFrom && !arrowTo:
		e.Style.EndArrow = diagram.ArrowNone
	}
	return e, true, nil
}

// parseText reads X,Y,Text or X,Y,Color,Text into a label node.
func parseText(line string) (diagram.Node, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return diagram.Node{}, false
	}
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])
	start := 2
	if len(parts) >= 4 {
		start = 3
	}
	text := decodeText(parts[start:])
	w, h := fitText(text, 1, 0, 0)
	return cellNode(x, y, w, h, text, diagram.NodeStyle{Shape: diagram.ShapeLabel}), true
}

func fitText(text string, minWidth, padX, padY int) (w, h int) {
	lines := strings.Split(text, "\n")
	w = minWidth
	for _, l := range lines {
		w = max(w, len([]rune(l))+padX)
	}
	return w, len(lines) + padY
}

// cellNode converts a top-left character rectangle into a center-anchored node.
func cellNode(x, y, w, h int, text string, style diagram.NodeStyle) diagram.Node {
	width := float64(w * scene.CellWidth)
	height := float64(h * scene.CellHeight)
	return diagram.Node{
		X:      float64(x*scene.CellWidth) + width/2,
		Y:      float64(y*scene.CellHeight) + height/2,
		Width:  width,
		Height: height,
		Value:  text,
		Style:  style,
		Vertex: true,
	}
}
