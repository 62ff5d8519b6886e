package token

// PortablePosition is a JSON-serializable form of Pos, used when error
// information must cross a process boundary (e.g. the tidlfmt CLI's --json
// diagnostic output).
type PortablePosition struct {
	Filepath string `json:"filepath"`
	Offset   int    `json:"offset"`
}

// ToPortable converts p to its serializable form.
func (p Pos) ToPortable() PortablePosition {
	if p.file == nil {
		return PortablePosition{}
	}
	return PortablePosition{
		Filepath: p.file.name,
		Offset:   p.Offset(),
	}
}

// PortableError is a JSON-serializable form of a diagnostic, independent of
// the tidl/errors package's richer in-process Error interface.
type PortableError struct {
	PositionJSON PortablePosition `json:"position"`
	CodeJSON     string           `json:"code"`
	MsgJSON      string           `json:"msg"`
}

// Position reconstructs a Pos from the portable form. The returned Pos
// carries a standalone *File with no line table, so Position().Line/Column
// will be zero; only the filename and offset survive the round trip.
func (p *PortableError) Position() Pos {
	return Pos{
		file:   NewFile(p.PositionJSON.Filepath, p.PositionJSON.Offset+1),
		offset: toPos(index(p.PositionJSON.Offset) + 1),
	}
}

func (p *PortableError) Error() string { return p.MsgJSON }
