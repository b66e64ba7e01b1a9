package world

// Voxel is a material id. Zero is air.
type Voxel uint8

const (
	Air Voxel = iota
	Sand
	Grass
	Dirt
	Stone
	Snow
	Leaves
	Wood

	// MaterialCount is the number of material ids including air.
	MaterialCount = int(Wood) + 1
)

var voxelNames = [...]string{"air", "sand", "grass", "dirt", "stone", "snow", "leaves", "wood"}

func (v Voxel) String() string {
	if int(v) < len(voxelNames) {
		return voxelNames[v]
	}
	return "unknown"
}

// IsSolid reports whether the voxel occludes its neighbours.
func (v Voxel) IsSolid() bool {
	return v != Air
}
