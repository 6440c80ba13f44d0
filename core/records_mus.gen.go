// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	slicekRAKkJ8MclYXMeMΣhGaYKgΞΞ = ord.NewSliceSer[StageStatus](StageStatusMUS)
	slicexTjN2zu8RUaVgkUTKT1gPwΞΞ = ord.NewSliceSer[ChunkOutcome](ChunkOutcomeMUS)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var StageMUS = stageMUS{}

type stageMUS struct{}

func (s stageMUS) Marshal(v Stage, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s stageMUS) Unmarshal(bs []byte) (v Stage, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Stage(tmp)
	return
}

func (s stageMUS) Size(v Stage) (size int) {
	return varint.Int.Size(int(v))
}

func (s stageMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var ChunkStatusMUS = chunkStatusMUS{}

type chunkStatusMUS struct{}

func (s chunkStatusMUS) Marshal(v ChunkStatus, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s chunkStatusMUS) Unmarshal(bs []byte) (v ChunkStatus, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ChunkStatus(tmp)
	return
}

func (s chunkStatusMUS) Size(v ChunkStatus) (size int) {
	return varint.Int.Size(int(v))
}

func (s chunkStatusMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var StageStatusMUS = stageStatusMUS{}

type stageStatusMUS struct{}

func (s stageStatusMUS) Marshal(v StageStatus, bs []byte) (n int) {
	n = StageMUS.Marshal(v.Stage, bs)
	n += varint.Int.Marshal(v.Attempts, bs[n:])
	return n + ord.String.Marshal(v.Error, bs[n:])
}

func (s stageStatusMUS) Unmarshal(bs []byte) (v StageStatus, n int, err error) {
	v.Stage, n, err = StageMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Attempts, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s stageStatusMUS) Size(v StageStatus) (size int) {
	size = StageMUS.Size(v.Stage)
	size += varint.Int.Size(v.Attempts)
	return size + ord.String.Size(v.Error)
}

func (s stageStatusMUS) Skip(bs []byte) (n int, err error) {
	n, err = StageMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var ChunkOutcomeMUS = chunkOutcomeMUS{}

type chunkOutcomeMUS struct{}

func (s chunkOutcomeMUS) Marshal(v ChunkOutcome, bs []byte) (n int) {
	n = IDMUS.Marshal(v.ChunkID, bs)
	n += varint.Int.Marshal(v.Ordinal, bs[n:])
	n += ChunkStatusMUS.Marshal(v.Status, bs[n:])
	return n + ord.String.Marshal(v.Reason, bs[n:])
}

func (s chunkOutcomeMUS) Unmarshal(bs []byte) (v ChunkOutcome, n int, err error) {
	v.ChunkID, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Ordinal, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Status, n1, err = ChunkStatusMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkOutcomeMUS) Size(v ChunkOutcome) (size int) {
	size = IDMUS.Size(v.ChunkID)
	size += varint.Int.Size(v.Ordinal)
	size += ChunkStatusMUS.Size(v.Status)
	return size + ord.String.Size(v.Reason)
}

func (s chunkOutcomeMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ChunkStatusMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

var RunRecordMUS = runRecordMUS{}

type runRecordMUS struct{}

func (s runRecordMUS) Marshal(v RunRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.DocumentID, bs[n:])
	n += StageMUS.Marshal(v.State, bs[n:])
	n += StageMUS.Marshal(v.FailedStage, bs[n:])
	n += ord.String.Marshal(v.Error, bs[n:])
	n += slicekRAKkJ8MclYXMeMΣhGaYKgΞΞ.Marshal(v.Stages, bs[n:])
	n += slicexTjN2zu8RUaVgkUTKT1gPwΞΞ.Marshal(v.Chunks, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.StartedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.FinishedAt, bs[n:])
}

func (s runRecordMUS) Unmarshal(bs []byte) (v RunRecord, n int, err error) {
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.DocumentID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.State, n1, err = StageMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FailedStage, n1, err = StageMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Stages, n1, err = slicekRAKkJ8MclYXMeMΣhGaYKgΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Chunks, n1, err = slicexTjN2zu8RUaVgkUTKT1gPwΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FinishedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s runRecordMUS) Size(v RunRecord) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.DocumentID)
	size += StageMUS.Size(v.State)
	size += StageMUS.Size(v.FailedStage)
	size += ord.String.Size(v.Error)
	size += slicekRAKkJ8MclYXMeMΣhGaYKgΞΞ.Size(v.Stages)
	size += slicexTjN2zu8RUaVgkUTKT1gPwΞΞ.Size(v.Chunks)
	size += raw.TimeUnixMicro.Size(v.StartedAt)
	return size + raw.TimeUnixMicro.Size(v.FinishedAt)
}

func (s runRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = StageMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = StageMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicekRAKkJ8MclYXMeMΣhGaYKgΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slicexTjN2zu8RUaVgkUTKT1gPwΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
