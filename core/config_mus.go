package core

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// FieldConfigMUS is the MUS serializer of FieldConfig.
var FieldConfigMUS = fieldConfigMUS{}

// ConfigSetMUS is the MUS serializer of ConfigSet.
// Entries are written in key order so equal sets encode identically.
var ConfigSetMUS = configSetMUS{}

type fieldConfigMUS struct{}

func (s fieldConfigMUS) Marshal(v FieldConfig, bs []byte) (n int) {
	n = ord.String.Marshal(v.IndexName, bs)
	n += ord.String.Marshal(v.FieldName, bs[n:])
	n += varint.Int.Marshal(len(v.Operations), bs[n:])
	for _, op := range v.Operations {
		n += varint.Int.Marshal(int(op), bs[n:])
	}
	return n + ord.String.Marshal(string(v.Language), bs[n:])
}

func (s fieldConfigMUS) Unmarshal(bs []byte) (v FieldConfig, n int, err error) {
	var n1 int
	v.IndexName, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.FieldName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count < 0 || count > len(bs)-n {
		err = fmt.Errorf("invalid operation count %d", count)
		return
	}
	v.Operations = make([]Operation, count)
	for i := range v.Operations {
		var op int
		op, n1, err = varint.Int.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v.Operations[i] = Operation(op)
	}
	var lang string
	lang, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	v.Language = LanguageCode(lang)
	return
}

func (s fieldConfigMUS) Size(v FieldConfig) (size int) {
	size = ord.String.Size(v.IndexName)
	size += ord.String.Size(v.FieldName)
	size += varint.Int.Size(len(v.Operations))
	for _, op := range v.Operations {
		size += varint.Int.Size(int(op))
	}
	return size + ord.String.Size(string(v.Language))
}

type configSetMUS struct{}

func (s configSetMUS) Marshal(v ConfigSet, bs []byte) (n int) {
	all := v.All()
	n = varint.Int.Marshal(len(all), bs)
	for _, c := range all {
		n += FieldConfigMUS.Marshal(c, bs[n:])
	}
	return n
}

func (s configSetMUS) Unmarshal(bs []byte) (v ConfigSet, n int, err error) {
	var (
		count int
		n1    int
	)
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count < 0 || count > len(bs)-n {
		err = fmt.Errorf("invalid config count %d", count)
		return
	}
	configs := make([]FieldConfig, count)
	for i := range configs {
		configs[i], n1, err = FieldConfigMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	v, err = NewConfigSet(configs...)
	return
}

func (s configSetMUS) Size(v ConfigSet) (size int) {
	all := v.All()
	size = varint.Int.Size(len(all))
	for _, c := range all {
		size += FieldConfigMUS.Size(c)
	}
	return size
}
