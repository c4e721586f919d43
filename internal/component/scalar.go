package component

// Mass of a particle. Zero or negative masses are not rejected.
type Mass float64

// Charge of a particle, any sign.
type Charge float64

// Lifetime counts the steps a particle has existed.
type Lifetime uint64
