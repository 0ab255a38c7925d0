package vox

// File magic, version and chunk identifiers of the MagicaVoxel format.
const (
	Magic   = "VOX "
	Version = 150

	chunkMain  = "MAIN"
	chunkSize  = "SIZE"
	chunkXYZI  = "XYZI"
	chunkRGBA  = "RGBA"
	chunkTrans = "nTRN"
	chunkGroup = "nGRP"
	chunkShape = "nSHP"
)

// chunkHeader is the 12 byte prefix of every chunk: a four character id,
// the content length and the total length of all child chunks.
type chunkHeader struct {
	ID       string
	Content  uint32
	Children uint32
}

const chunkHeaderLen = 12

// Dict is the string dictionary attached to scene graph nodes.
type Dict map[string]string
