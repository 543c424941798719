package geo

// Region is one of Chile's administrative regions
type Region struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Communes []string `json:"-"`
}

// Commune is a commune with its parent region
type Commune struct {
	Name     string `json:"name"`
	RegionID int    `json:"region_id"`
	Region   string `json:"region"`
}

// regions is ordered north to south by official region number
var regions = []Region{
	{ID: 1, Name: "Arica y Parinacota", Communes: []string{
		"Arica", "Camarones", "Putre", "General Lagos",
	}},
	{ID: 2, Name: "Tarapacá", Communes: []string{
		"Iquique", "Alto Hospicio", "Pozo Almonte", "Pica", "Huara",
	}},
	{ID: 3, Name: "Antofagasta", Communes: []string{
		"Antofagasta", "Calama", "Tocopilla", "Mejillones", "Taltal", "San Pedro de Atacama",
	}},
	{ID: 4, Name: "Atacama", Communes: []string{
		"Copiapó", "Caldera", "Vallenar", "Chañaral", "Huasco", "Tierra Amarilla",
	}},
	{ID: 5, Name: "Coquimbo", Communes: []string{
		"La Serena", "Coquimbo", "Ovalle", "Illapel", "Vicuña", "Los Vilos", "Andacollo",
	}},
	{ID: 6, Name: "Valparaíso", Communes: []string{
		"Valparaíso", "Viña del Mar", "Quilpué", "Villa Alemana", "San Antonio",
		"Quillota", "Los Andes", "San Felipe", "Concón", "La Calera", "Limache", "Casablanca",
	}},
	{ID: 7, Name: "Metropolitana de Santiago", Communes: []string{
		"Santiago", "Providencia", "Las Condes", "Ñuñoa", "La Florida", "Maipú",
		"Puente Alto", "San Bernardo", "Vitacura", "Lo Barnechea", "Peñalolén",
		"La Reina", "Macul", "Estación Central", "Recoleta", "Independencia",
		"Quilicura", "Renca", "Pudahuel", "Cerrillos", "San Miguel", "La Cisterna",
		"El Bosque", "La Granja", "San Joaquín", "Huechuraba", "Conchalí",
		"Colina", "Lampa", "Talagante", "Melipilla", "Buin", "Paine", "Peñaflor",
	}},
	{ID: 8, Name: "Libertador General Bernardo O'Higgins", Communes: []string{
		"Rancagua", "San Fernando", "Rengo", "Machalí", "Graneros", "Santa Cruz", "Pichilemu", "San Vicente",
	}},
	{ID: 9, Name: "Maule", Communes: []string{
		"Talca", "Curicó", "Linares", "Constitución", "Cauquenes", "Molina", "Parral", "San Javier",
	}},
	{ID: 10, Name: "Ñuble", Communes: []string{
		"Chillán", "Chillán Viejo", "San Carlos", "Bulnes", "Quirihue", "Coihueco", "Yungay",
	}},
	{ID: 11, Name: "Biobío", Communes: []string{
		"Concepción", "Talcahuano", "San Pedro de la Paz", "Hualpén", "Chiguayante",
		"Coronel", "Lota", "Los Ángeles", "Tomé", "Penco", "Cabrero", "Mulchén",
	}},
	{ID: 12, Name: "La Araucanía", Communes: []string{
		"Temuco", "Padre Las Casas", "Villarrica", "Angol", "Victoria", "Pucón", "Lautaro", "Nueva Imperial",
	}},
	{ID: 13, Name: "Los Ríos", Communes: []string{
		"Valdivia", "La Unión", "Río Bueno", "Panguipulli", "Lanco", "Paillaco",
	}},
	{ID: 14, Name: "Los Lagos", Communes: []string{
		"Puerto Montt", "Osorno", "Castro", "Ancud", "Puerto Varas", "Quellón", "Calbuco", "Llanquihue",
	}},
	{ID: 15, Name: "Aysén del General Carlos Ibáñez del Campo", Communes: []string{
		"Coyhaique", "Puerto Aysén", "Chile Chico", "Cochrane",
	}},
	{ID: 16, Name: "Magallanes y de la Antártica Chilena", Communes: []string{
		"Punta Arenas", "Puerto Natales", "Porvenir", "Cabo de Hornos",
	}},
}

// AllRegions returns every region ordered by official number
func AllRegions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// FindRegion returns the region with the given id
func FindRegion(id int) (Region, bool) {
	for _, r := range regions {
		if r.ID == id {
			return r, true
		}
	}
	return Region{}, false
}

// SearchRegions finds regions whose name contains the term, ignoring
// case and accents
func SearchRegions(term string) []Region {
	folded := Fold(term)
	if folded == "" {
		return nil
	}
	var out []Region
	for _, r := range regions {
		if matches(r.Name, folded) {
			out = append(out, r)
		}
	}
	return out
}

// CommunesOf returns the communes of a region
func CommunesOf(regionID int) ([]Commune, bool) {
	r, ok := FindRegion(regionID)
	if !ok {
		return nil, false
	}
	out := make([]Commune, 0, len(r.Communes))
	for _, name := range r.Communes {
		out = append(out, Commune{Name: name, RegionID: r.ID, Region: r.Name})
	}
	return out, true
}

// SearchCommunes finds communes across all regions whose name contains
// the term, ignoring case and accents
func SearchCommunes(term string) []Commune {
	folded := Fold(term)
	if folded == "" {
		return nil
	}
	var out []Commune
	for _, r := range regions {
		for _, name := range r.Communes {
			if matches(name, folded) {
				out = append(out, Commune{Name: name, RegionID: r.ID, Region: r.Name})
			}
		}
	}
	return out
}
