package index

// Every top-level bucket holds one sub-bucket per locale.
var (
	bMeta        = []byte("meta")        // locale -> slug -> post json
	bBody        = []byte("body")        // locale -> slug -> markup body
	bIdxDate     = []byte("idx_date")    // locale -> dateKey -> slug
	bIdxCat      = []byte("idx_cat")     // locale -> category -> dateKey -> slug
	bFingerprint = []byte("fingerprint") // locale -> slug -> render hash
)
