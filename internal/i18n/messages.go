package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed strings shown by the terminal views. The key is also the English format.
const (
	MsgCurrently     = "Currently"
	MsgUpNext        = "Up next"
	MsgEmpty         = "Nothing here yet."
	MsgOpenLink      = "Open link"
	MsgAll           = "All"
	MsgSearch        = "Search"
	MsgSort          = "Sort"
	MsgConfirmDelete = "Delete %q? (y/N)"
	MsgImportDone    = "Import complete: %d imported, %d skipped, %d total"
	MsgSaveFailed    = "Could not save; changes are kept in memory for this session"
)

func init() {
	en := language.English
	message.SetString(en, typeKey("book"), "Book")
	message.SetString(en, typeKey("manga"), "Manga")
	message.SetString(en, typeKey("webtoon"), "Webtoon")
	message.SetString(en, typeKey("audiobook"), "Audiobook")
	message.SetString(en, typeKey("movie"), "Movie")
	message.SetString(en, typeKey("series"), "Series")
	message.SetString(en, typeKey("anime"), "Anime")
	message.SetString(en, typeKey("reportage"), "Documentary")
	message.SetString(en, typeKey("article"), "Article")

	message.SetString(en, "status.planned", "Planned")
	message.SetString(en, "status.current", "In progress")
	message.SetString(en, "status.paused", "Paused")
	message.SetString(en, "status.dropped", "Dropped")
	message.SetString(en, "status.done", "Done")

	fr := language.French
	message.SetString(fr, typeKey("book"), "Livre")
	message.SetString(fr, typeKey("manga"), "Manga")
	message.SetString(fr, typeKey("webtoon"), "Webtoon")
	message.SetString(fr, typeKey("audiobook"), "Audio")
	message.SetString(fr, typeKey("movie"), "Film")
	message.SetString(fr, typeKey("series"), "Série")
	message.SetString(fr, typeKey("anime"), "Anime")
	message.SetString(fr, typeKey("reportage"), "Reportage")
	message.SetString(fr, typeKey("article"), "Article")

	message.SetString(fr, "status.planned", "À voir/lire")
	message.SetString(fr, "status.current", "En cours")
	message.SetString(fr, "status.paused", "En pause")
	message.SetString(fr, "status.dropped", "Abandonné")
	message.SetString(fr, "status.done", "Terminé")

	message.SetString(fr, MsgCurrently, "En cours")
	message.SetString(fr, MsgUpNext, "À suivre")
	message.SetString(fr, MsgEmpty, "Rien ici pour l'instant.")
	message.SetString(fr, MsgOpenLink, "Ouvrir le lien")
	message.SetString(fr, MsgAll, "Tout")
	message.SetString(fr, MsgSearch, "Rechercher")
	message.SetString(fr, MsgSort, "Tri")
	message.SetString(fr, MsgConfirmDelete, "Supprimer %q ? (y/N)")
	message.SetString(fr, MsgImportDone, "Import terminé ✅ : %d importés, %d ignorés, %d au total")
	message.SetString(fr, MsgSaveFailed, "Enregistrement impossible ; les changements restent en mémoire pour cette session")
}
