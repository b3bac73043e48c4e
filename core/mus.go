package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// MUS serializers for the storage layer. The prompt model is small enough
// that these are written by hand against the mus-go primitives instead of
// being generated.

var (
	tagsSer   = ord.NewSliceSer[string](ord.String)
	vectorSer = ord.NewSliceSer[float32](raw.Float32)
)

// PromptMUS serializes Prompt values in the MUS format.
var PromptMUS = promptMUS{}

type promptMUS struct{}

func (s promptMUS) Marshal(v Prompt, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(string(v.Category), bs[n:])
	n += tagsSer.Marshal(v.Tags, bs[n:])
	n += vectorSer.Marshal(v.Vector, bs[n:])
	return n
}

func (s promptMUS) Unmarshal(bs []byte) (v Prompt, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Description, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var category string
	category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Category = Category(category)
	v.Tags, n1, err = tagsSer.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorSer.Unmarshal(bs[n:])
	n += n1
	return
}

func (s promptMUS) Size(v Prompt) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Content)
	size += ord.String.Size(string(v.Category))
	size += tagsSer.Size(v.Tags)
	size += vectorSer.Size(v.Vector)
	return size
}
