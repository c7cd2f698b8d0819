package submission

// Category is a classification target.
type Category string

const (
	Sticos          Category = "Sticos"
	SupportAI       Category = "SupportAI"
	Innsiktsmodulen Category = "Innsiktsmodulen"
)

// Categories lists the valid targets in the order they are presented.
var Categories = []Category{Sticos, SupportAI, Innsiktsmodulen}

// Question is one fixed test item.
type Question struct {
	Text     string
	Expected Category
}

var questions = []Question{
	{"Hvordan registrere refusjon for el-bil ladning på lønning", SupportAI},
	{"Hvilken momskode skal jeg bruke ved salg til utlandet?", Sticos},
	{"Hvilke kostnadsposter avviker mest fra budsjett i 2024?", Innsiktsmodulen},
	{"Pause under arbeidstid", Sticos},
	{"Kan jeg som administrator endre timelistene til de ansatte?", SupportAI},
	{"Hvordan påvirker finansposter årets resultat?", Innsiktsmodulen},
	{"hvordan får jeg tatt ut næringsspesifikasjon", Sticos},
	{"Hvordan legger jeg til noter i årsregnskapet?", SupportAI},
	{"Hva er total varekostnad, og hvordan avviker den fra budsjett?", Innsiktsmodulen},
	{"Er gaver til samarbeidspartnere regnskapsmessig og skattemessig fradragsberettiget?", Sticos},
	{"Hvordan endrer jeg e-post på en ansatt?", SupportAI},
	{"Hvor mye alkohol kan jeg føre på privat utlegg?", Sticos},
	{"Jeg har udekket tap fra tidligere år, hvordan fører jeg overskudd for i år mot dette?", SupportAI},
	{"Hvordan avskrives driftsmidler etter balanseføring?", Sticos},
	{"Hva er årets faktiske lønnskostnader sammenlignet med budsjett?", Innsiktsmodulen},
	{"Når må jeg sende inn MVA-melding?", Sticos},
	{"Hvordan registrerer jeg en tilbakebetaling?", SupportAI},
	{"hvordan fungerer anleggsregisteret?", Sticos},
	{"Kan noe merkes som sluttfaktura?", SupportAI},
	{"Hvor mye har selskapet tjent i renteinntekter hittil i år?", Innsiktsmodulen},
}

// Questions returns a copy of the fixed test set.
func Questions() []Question {
	return append([]Question(nil), questions...)
}
