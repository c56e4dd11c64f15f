package domain

// Venue is a stadium whose seating capacity is Rows x Columns.
type Venue struct {
	ID      string
	Name    string
	Rows    int
	Columns int
}

// Team participates in events.
type Team struct {
	ID   string
	Name string
}

// Official is a referee or linesman.
type Official struct {
	ID   string
	Name string
}
