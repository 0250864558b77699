package domain

// Anime stores information about a single catalog entry
type Anime struct {
	ID            int      `json:"id" yaml:"id"`
	Title         string   `json:"titulo" yaml:"titulo"`
	OriginalTitle string   `json:"tituloOriginal" yaml:"tituloOriginal"`
	Genres        []string `json:"generos" yaml:"generos"`
	Season        string   `json:"temporada" yaml:"temporada"`
	Year          int      `json:"ano" yaml:"ano"`
	Episodes      int      `json:"episodios" yaml:"episodios"`
	Status        string   `json:"status" yaml:"status"`
	Synopsis      string   `json:"sinopse" yaml:"sinopse"`
	Rating        float64  `json:"nota" yaml:"nota"`
	Studio        string   `json:"estudio" yaml:"estudio"`
}

// Defaults applied to optional fields of a new anime
const (
	DefaultSeason   = "Não especificada"
	DefaultStatus   = "Em andamento"
	DefaultSynopsis = "Sem sinopse"
	DefaultStudio   = "Desconhecido"
)

// AnimeInput is the body accepted when adding an anime. The id is always
// assigned by the catalog.
type AnimeInput struct {
	Title         string   `json:"titulo" validate:"required"`
	OriginalTitle string   `json:"tituloOriginal"`
	Genres        []string `json:"generos" validate:"required,min=1"`
	Season        string   `json:"temporada"`
	Year          Number   `json:"ano" validate:"required"`
	Episodes      Number   `json:"episodios"`
	Status        string   `json:"status"`
	Synopsis      string   `json:"sinopse"`
	Rating        Number   `json:"nota"`
	Studio        string   `json:"estudio"`
}

// ToAnime builds the stored record for id, filling defaults for every
// optional field left empty.
func (in AnimeInput) ToAnime(id int) Anime {
	year, _ := in.Year.Int()
	episodes, _ := in.Episodes.Int()
	rating, _ := in.Rating.Float()

	return Anime{
		ID:            id,
		Title:         in.Title,
		OriginalTitle: in.OriginalTitle,
		Genres:        in.Genres,
		Season:        orDefault(in.Season, DefaultSeason),
		Year:          year,
		Episodes:      episodes,
		Status:        orDefault(in.Status, DefaultStatus),
		Synopsis:      orDefault(in.Synopsis, DefaultSynopsis),
		Rating:        rating,
		Studio:        orDefault(in.Studio, DefaultStudio),
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// AnimeFilter narrows the catalog. Nil fields are not applied.
type AnimeFilter struct {
	Genre  *string
	Season *string
	Year   *string
}

// Statistics summarizes the catalog
type Statistics struct {
	Total         int            `json:"total"`
	ByGenre       map[string]int `json:"porGenero"`
	BySeason      map[string]int `json:"porTemporada"`
	ByYear        map[int]int    `json:"porAno"`
	AverageRating float64        `json:"notaMedia"`
	MaxID         int            `json:"maiorId"`
}
