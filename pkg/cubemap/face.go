package cubemap

import (
	"fmt"
	"strings"

	"github.com/Faultbox/equi2cube/pkg/math"
)

// FaceName identifies one of the six cube faces.
type FaceName uint8

// Faces in canonical order. The numeric value is the index into the face
// table and the bit position inside a FaceSet.
const (
	Front FaceName = iota
	Right
	Back
	Left
	Top
	Bottom

	faceCount = 6
)

var faceNames = [faceCount]string{"front", "right", "back", "left", "top", "bottom"}

// String returns the lower-case token used on the command line and in file names.
func (n FaceName) String() string {
	if int(n) < faceCount {
		return faceNames[n]
	}
	return "unknown"
}

// Valid reports whether n is one of the six faces.
func (n FaceName) Valid() bool {
	return int(n) < faceCount
}

// ParseFaceName converts a token such as "front" or " Top " to a FaceName.
func ParseFaceName(token string) (FaceName, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for i, name := range faceNames {
		if t == name {
			return FaceName(i), nil
		}
	}
	return 0, &ValidationError{
		Field:  "face",
		Value:  token,
		Reason: "must be one of " + strings.Join(faceNames[:], ", "),
	}
}

// FaceSet is a set of faces stored as a bit mask. The zero value is the
// empty set, which ListFaces and Convert treat as "all faces".
type FaceSet uint8

// AllFaces contains every face.
const AllFaces FaceSet = 1<<faceCount - 1

// NewFaceSet returns a set holding the given faces.
func NewFaceSet(names ...FaceName) FaceSet {
	var s FaceSet
	for _, n := range names {
		s |= 1 << n
	}
	return s
}

// Has reports whether n is in the set.
func (s FaceSet) Has(n FaceName) bool {
	return n.Valid() && s&(1<<n) != 0
}

// Len returns the number of faces in the set.
func (s FaceSet) Len() int {
	count := 0
	for n := FaceName(0); n < faceCount; n++ {
		if s.Has(n) {
			count++
		}
	}
	return count
}

// Names returns the members in canonical order.
func (s FaceSet) Names() []FaceName {
	names := make([]FaceName, 0, faceCount)
	for n := FaceName(0); n < faceCount; n++ {
		if s.Has(n) {
			names = append(names, n)
		}
	}
	return names
}

func (s FaceSet) String() string {
	parts := make([]string, 0, faceCount)
	for _, n := range s.Names() {
		parts = append(parts, n.String())
	}
	return strings.Join(parts, ",")
}

// ParseFaceTokens parses individual face tokens. An empty list selects all
// faces; an unknown or empty token is a *ValidationError. Duplicates collapse.
func ParseFaceTokens(tokens []string) (FaceSet, error) {
	if len(tokens) == 0 {
		return AllFaces, nil
	}
	var s FaceSet
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			return 0, &ValidationError{Field: "face", Value: tok, Reason: "empty face name"}
		}
		n, err := ParseFaceName(tok)
		if err != nil {
			return 0, err
		}
		s |= 1 << n
	}
	return s, nil
}

// Face describes the orientation of one cube face and its cell in the
// 3x4 cross layout.
//
// Up is the world direction of increasing row index, so for the four side
// faces it points down (-Y): row 0 of a face image is its top edge. Right is
// the direction of increasing column index. Every face satisfies
// Right == Up x Forward with world +Y up, which keeps shared edges of
// neighbouring faces identical.
type Face struct {
	Name     FaceName
	Forward  math.Vec3
	Up       math.Vec3
	Right    math.Vec3
	Row, Col int
}

// The front face looks along +X, which is longitude 0 and therefore the
// horizontal centre of the panorama.
var faces = [faceCount]Face{
	{Name: Front, Forward: math.Vec3{X: 1}, Up: math.Vec3{Y: -1}, Right: math.Vec3{Z: 1}, Row: 1, Col: 1},
	{Name: Right, Forward: math.Vec3{Z: 1}, Up: math.Vec3{Y: -1}, Right: math.Vec3{X: -1}, Row: 1, Col: 2},
	{Name: Back, Forward: math.Vec3{X: -1}, Up: math.Vec3{Y: -1}, Right: math.Vec3{Z: -1}, Row: 1, Col: 3},
	{Name: Left, Forward: math.Vec3{Z: -1}, Up: math.Vec3{Y: -1}, Right: math.Vec3{X: 1}, Row: 1, Col: 0},
	{Name: Top, Forward: math.Vec3{Y: 1}, Up: math.Vec3{X: 1}, Right: math.Vec3{Z: 1}, Row: 0, Col: 1},
	{Name: Bottom, Forward: math.Vec3{Y: -1}, Up: math.Vec3{X: -1}, Right: math.Vec3{Z: 1}, Row: 2, Col: 1},
}

func init() {
	for _, f := range faces {
		if err := f.checkBasis(); err != nil {
			panic(err)
		}
	}
}

// checkBasis reports a face whose vectors are not signed axes, are not
// mutually orthogonal or break Right == Up x Forward.
func (f Face) checkBasis() error {
	switch {
	case !f.Forward.IsAxis() || !f.Up.IsAxis() || !f.Right.IsAxis():
		return fmt.Errorf("cubemap: %s basis has a non-axis vector", f.Name)
	case f.Forward.Dot(f.Up) != 0 || f.Forward.Dot(f.Right) != 0 || f.Up.Dot(f.Right) != 0:
		return fmt.Errorf("cubemap: %s basis is not orthogonal", f.Name)
	case f.Up.Cross(f.Forward) != f.Right:
		return fmt.Errorf("cubemap: %s basis is left-handed", f.Name)
	}
	return nil
}

// Layout dimensions of the cross composite, in cells.
const (
	LayoutRows = 3
	LayoutCols = 4
)

// FaceByName returns the descriptor of a face.
func FaceByName(n FaceName) Face {
	return faces[n]
}

// Faces returns all six descriptors in canonical order.
func Faces() []Face {
	out := make([]Face, faceCount)
	copy(out, faces[:])
	return out
}

// ListFaces returns the descriptors selected by subset in canonical order.
// An empty subset selects every face.
func ListFaces(subset FaceSet) ([]Face, error) {
	if subset&^AllFaces != 0 {
		return nil, &ValidationError{Field: "face set", Reason: "contains unknown faces"}
	}
	if subset == 0 {
		subset = AllFaces
	}
	out := make([]Face, 0, subset.Len())
	for _, n := range subset.Names() {
		out = append(out, faces[n])
	}
	return out, nil
}
