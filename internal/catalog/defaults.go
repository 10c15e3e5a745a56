package catalog

import "redfragances/internal/domain"

// Defaults returns the built-in catalog used when nothing is persisted yet.
// Each call returns fresh memory.
func Defaults() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Brand: "Tom Ford", Name: "Oud Wood", Price: 320,
			Rating: 4.8, ReviewCount: 124, Notes: []string{"Oud", "Sándalo", "Cardamomo"},
			Family: "Amaderado", Category: domain.CategoryUnisex, IsNew: true,
			Image:       "https://cdn.redfragances.com/img/oud-wood.jpg",
			Description: "Madera de oud exótica con un fondo cálido y especiado.",
		},
		{
			ID: "2", Brand: "Le Labo", Name: "Santal 33", Price: 290, DiscountPrice: domain.Int64(260),
			Rating: 4.7, ReviewCount: 310, Notes: []string{"Sándalo", "Cuero", "Violeta"},
			Family: "Amaderado", Category: domain.CategoryUnisex,
			Image:       "https://cdn.redfragances.com/img/santal-33.jpg",
			Description: "Un clásico moderno de sándalo australiano y cuero.",
		},
		{
			ID: "3", Brand: "Chanel", Name: "Bleu de Chanel", Price: 180,
			Rating: 4.6, ReviewCount: 512, Notes: []string{"Pomelo", "Incienso", "Cedro"},
			Family: "Fresco", Category: domain.CategoryMen,
			Image: "https://cdn.redfragances.com/img/bleu-de-chanel.jpg",
			SizePrices: []domain.SizePrice{
				{Size: "100ml", Price: 260, DiscountPrice: domain.Int64(240)},
			},
		},
		{
			ID: "4", Brand: "Chanel", Name: "Coco Mademoiselle", Price: 190,
			Rating: 4.9, ReviewCount: 640, Notes: []string{"Naranja", "Rosa", "Pachulí"},
			Family: "Oriental", Category: domain.CategoryWomen, IsNew: true,
			Image: "https://cdn.redfragances.com/img/coco-mademoiselle.jpg",
		},
		{
			ID: "5", Brand: "Byredo", Name: "Gypsy Water", Price: 250,
			Rating: 4.4, ReviewCount: 98, Notes: []string{"Bergamota", "Pino", "Vainilla"},
			Family: "Amaderado", Category: domain.CategoryUnisex,
			Image: "https://cdn.redfragances.com/img/gypsy-water.jpg",
		},
		{
			ID: "6", Brand: "Jo Malone", Name: "Lime Basil & Mandarin", Price: 150, DiscountPrice: domain.Int64(130),
			Rating: 4.5, ReviewCount: 205, Notes: []string{"Lima", "Albahaca", "Mandarina"},
			Family: "Cítrico", Category: domain.CategoryUnisex,
			Image: "https://cdn.redfragances.com/img/lime-basil.jpg",
		},
		{
			ID: "7", Brand: "Dior", Name: "Sauvage", Price: 160,
			Rating: 4.7, ReviewCount: 890, Notes: []string{"Bergamota", "Pimienta", "Ambroxan"},
			Family: "Fresco", Category: domain.CategoryMen, IsNew: true,
			Image: "https://cdn.redfragances.com/img/sauvage.jpg",
		},
		{
			ID: "8", Brand: "Dior", Name: "J'adore", Price: 175,
			Rating: 4.8, ReviewCount: 455, Notes: []string{"Ylang-ylang", "Jazmín", "Rosa"},
			Family: "Floral", Category: domain.CategoryWomen,
			Image: "https://cdn.redfragances.com/img/jadore.jpg",
		},
	}
}
