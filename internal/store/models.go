package store

// The JSON tags are the wire format shared with the original mobile app's
// storage blobs and backup files; they must not change.

// Client is a person receiving services.
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	Email     string `json:"email"`
	Phone     string `json:"telefono"`
	BirthDate string `json:"dataNascita"` // ISO-8601, date-only
	Address   string `json:"indirizzo"`
	Photo     string `json:"foto,omitempty"` // opaque URI
	SelfCare  string `json:"autocura"`
	CreatedAt string `json:"createdAt"`
}

// Treatment is a single recorded service performed for a client on a date.
// Name is a denormalized copy of a treatment type name, ClientName a
// denormalized copy of the client name; neither is a durable reference.
type Treatment struct {
	ID          string `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descrizione"`
	Date        string `json:"data"` // ISO-8601, may carry a time of day
	ClientID    string `json:"clienteId"`
	ClientName  string `json:"clienteNome"`
	PhotoBefore string `json:"fotoPrima,omitempty"`
	PhotoAfter  string `json:"fotoDopo,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// TreatmentType is a named template used to prefill new treatments.
// Names are unique after trim+casefold normalization.
type TreatmentType struct {
	ID                 string `json:"id"`
	Name               string `json:"nome"`
	DefaultDescription string `json:"descrizioneDefault"`
	CreatedAt          string `json:"createdAt"`
}

// Promotion is a time-bounded marketing offer.
type Promotion struct {
	ID          string `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descrizione"`
	Photo       string `json:"foto,omitempty"`
	StartDate   string `json:"dataInizio"`
	EndDate     string `json:"dataFine"`
	CreatedAt   string `json:"createdAt"`
}

// Settings is the singleton preference record, loaded and saved as a whole.
type Settings struct {
	Sounds    bool `json:"suoni"`
	Vibration bool `json:"vibrazione"`
	DarkTheme bool `json:"temaScuro"`
}

// DefaultSettings is the state of a fresh installation.
func DefaultSettings() Settings {
	return Settings{Sounds: true, Vibration: true, DarkTheme: false}
}

// ClientPatch carries partial updates; nil fields are left unchanged.
type ClientPatch struct {
	Name      *string
	Email     *string
	Phone     *string
	BirthDate *string
	Address   *string
	Photo     *string
	SelfCare  *string
}

type TreatmentPatch struct {
	Name        *string
	Description *string
	Date        *string
	PhotoBefore *string
	PhotoAfter  *string
}

type TreatmentTypePatch struct {
	Name               *string
	DefaultDescription *string
}

type PromotionPatch struct {
	Name        *string
	Description *string
	Photo       *string
	StartDate   *string
	EndDate     *string
}

type SettingsPatch struct {
	Sounds    *bool
	Vibration *bool
	DarkTheme *bool
}

// Snapshot is the whole entity state, as used by backup export/import.
type Snapshot struct {
	Clients        []Client
	Treatments     []Treatment
	Promotions     []Promotion
	TreatmentTypes []TreatmentType
}
