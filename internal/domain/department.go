package domain

// Department represents an organizational unit employees belong to.
type Department struct {
	ID   string
	Name string
}
