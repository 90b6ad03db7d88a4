package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Company{}, &Branch{}, &User{}, &PB{},
		&Board{}, &BoardBookmark{}, &Reply{}, &ReReply{},
		&Notice{}, &FrequentQuestion{},
		&Reservation{}, &Review{}, &Style{},
	}
}
