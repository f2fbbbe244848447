// Package hexgrid clusters geocoded polling booths into H3 hexagon cells
// for map overlays. Wraps uber/h3-go with booth-specific helpers.
package hexgrid

import (
	"errors"
	"fmt"
	"sort"

	"github.com/uber/h3-go/v4"

	"github.com/politic-in/atlas/types"
)

// Error definitions
var (
	ErrInvalidCellID      = errors.New("invalid H3 cell ID")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidResolution  = errors.New("invalid resolution")
)

// Resolution constants
const (
	// BoothResolution (~0.1 km² per hexagon) matches the density of urban
	// polling stations at full zoom.
	BoothResolution = 9

	// ACResolution is the coarser grid used when an entire AC is in view.
	ACResolution = 7

	// MinResolution / MaxResolution bound the supported H3 range.
	MinResolution = 0
	MaxResolution = 15
)

// CellFor returns the H3 cell ID containing a coordinate at the given
// resolution.
func CellFor(lat, lng float64, resolution int) (string, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, lat, lng)
	}
	if resolution < MinResolution || resolution > MaxResolution {
		return "", fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	cell := h3.LatLngToCell(h3.NewLatLng(lat, lng), resolution)
	if !cell.IsValid() {
		return "", fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, lat, lng)
	}
	return cell.String(), nil
}

// CellCenter returns the center coordinate of an H3 cell.
func CellCenter(cellID string) (lat, lng float64, err error) {
	cell, err := cellFromString(cellID)
	if err != nil {
		return 0, 0, err
	}
	ll := cell.LatLng()
	return ll.Lat, ll.Lng, nil
}

// CellBoundary returns the hexagon outline as [lat, lng] pairs, closed
// (first point repeated last), ready for polygon rendering.
func CellBoundary(cellID string) ([][2]float64, error) {
	cell, err := cellFromString(cellID)
	if err != nil {
		return nil, err
	}
	boundary := cell.Boundary()
	points := make([][2]float64, 0, len(boundary)+1)
	for _, ll := range boundary {
		points = append(points, [2]float64{ll.Lat, ll.Lng})
	}
	if len(points) > 0 {
		points = append(points, points[0])
	}
	return points, nil
}

// Cluster is one hexagon cell with the booths that fall inside it.
type Cluster struct {
	CellID   string   `json:"cellId"`
	BoothIDs []string `json:"boothIds"`
}

// ClusterBooths groups geocoded booths into hexagon cells at the given
// resolution. Booths without coordinates are skipped. Clusters come back
// largest first, cell ID as tie-break, so overlay rendering is stable.
func ClusterBooths(booths []types.Booth, resolution int) ([]Cluster, error) {
	if resolution < MinResolution || resolution > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}

	byCell := make(map[string][]string)
	for _, b := range booths {
		if !b.HasLocation() {
			continue
		}
		cellID, err := CellFor(*b.Lat, *b.Lng, resolution)
		if err != nil {
			continue
		}
		byCell[cellID] = append(byCell[cellID], b.ID)
	}

	clusters := make([]Cluster, 0, len(byCell))
	for cellID, ids := range byCell {
		sort.Strings(ids)
		clusters = append(clusters, Cluster{CellID: cellID, BoothIDs: ids})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].BoothIDs) != len(clusters[j].BoothIDs) {
			return len(clusters[i].BoothIDs) > len(clusters[j].BoothIDs)
		}
		return clusters[i].CellID < clusters[j].CellID
	})
	return clusters, nil
}

func cellFromString(cellID string) (h3.Cell, error) {
	var cell h3.Cell
	if err := cell.UnmarshalText([]byte(cellID)); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCellID, cellID)
	}
	if !cell.IsValid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCellID, cellID)
	}
	return cell, nil
}
