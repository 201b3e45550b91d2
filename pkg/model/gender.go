package model

//go:generate go run github.com/dmarkham/enumer -type Gender -trimprefix Gender -transform lower -json -sql -output gender.gen.go

// Gender is the recorded gender of a patient.
type Gender int

const (
	GenderUnspecified Gender = iota
	GenderFemale
	GenderMale
	GenderOther
)
