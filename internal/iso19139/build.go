package iso19139

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/landis-portal/metaexport/internal/catalog"
)

// Code list URLs fixed by the target schema profile.
const (
	codeListLanguage    = "http://standards.iso.org/ittf/PubliclyAvailableStandards/ISO_19139_Schemas/resources/Codelist/ML_gmxCodelists.xml#LanguageCode"
	codeListScope       = "http://standards.iso.org/ittf/PubliclyAvailableStandards/ISO_19139_Schemas/resources/Codelist/ML_gmxCodelists.xml#MD_ScopeCode"
	codeListRestriction = "http://standards.iso.org/ittf/PubliclyAvailableStandards/ISO_19139_Schemas/resources/Codelist/ML_gmxCodelists.xml#MD_RestrictionCode"
	codeListCharset     = "http://www.isotc211.org/2005/resources/codeList.xml#MD_CharacterSetCode"
	codeListRole        = "http://www.isotc211.org/2005/resources/codeList.xml#CI_RoleCode"
	codeListDateType    = "http://www.isotc211.org/2005/resources/codeList.xml#CI_DateTypeCode"
	codeListProgress    = "http://www.isotc211.org/2005/resources/codeList.xml#MD_ProgressCode"
	codeListKeywordType = "http://www.isotc211.org/2005/resources/codeList.xml#MD_KeywordTypeCode"
	codeListSpatialType = "http://www.isotc211.org/2005/resources/codeList.xml#MD_SpatialRepresentationTypeCode"
)

// nilReasonMissing marks a mandatory-but-absent value. The element stays
// present but empty; omitting it entirely would be invalid for mandatory
// slots, and an empty shell without the marker is invalid too.
const nilReasonMissing = "missing"

// BuildOptions carries the presentation defaults the document needs beyond
// the bundle itself. The zero value is not useful; start from
// DefaultBuildOptions.
type BuildOptions struct {
	LanguageCode    string
	CharacterSet    string
	HierarchyLevel  string
	ReferenceSystem string

	// DateStamp overrides the metadata date stamp (YYYY-MM-DD). When empty
	// the main record's publication date is used. The builder never reads
	// the wall clock: a stamped "today" would break byte determinism.
	DateStamp string
}

// DefaultBuildOptions returns the profile defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		LanguageCode:    "eng",
		CharacterSet:    "utf8",
		HierarchyLevel:  "dataset",
		ReferenceSystem: "British National Grid",
	}
}

// BuildDocument maps a bundle onto the ISO 19139 element tree. Sections are
// emitted in schema-mandated order regardless of which optional sections
// are present. Returns *catalog.SchemaMappingError when a mandatory scalar
// (identifier, title) is null or blank.
func BuildDocument(b *catalog.Bundle, opts BuildOptions) (*Element, error) {
	if CleanText(b.ID) == "" {
		return nil, &catalog.SchemaMappingError{ID: b.ID, Field: "identifier"}
	}
	if text(b.Main.Title) == "" {
		return nil, &catalog.SchemaMappingError{ID: b.ID, Field: "title"}
	}

	root := NewElement("gmd", "MD_Metadata")
	declareNamespaces(root)

	buildFileIdentifier(root, b)
	buildLanguage(root, opts.LanguageCode)
	buildCharacterSet(root, opts.CharacterSet)
	buildHierarchyLevel(root, opts.HierarchyLevel)
	buildContacts(root, b.Contacts)
	buildDateStamp(root, b, opts)
	buildReferenceSystem(root, opts.ReferenceSystem)
	buildIdentification(root, b)
	buildDistribution(root, b)
	buildDataQuality(root, b)
	buildExtensionInfo(root, b.Attributes)

	return root, nil
}

// text unwraps a nullable column and sanitises it. A null column and a
// blank column both come back as "".
func text(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return CleanText(ns.String)
}

// charString appends <prefix:local><gco:CharacterString>value</...>.
func charString(parent *Element, prefix, local, value string) {
	parent.Child(prefix, local).Child("gco", "CharacterString").SetText(value)
}

// optionalCharString appends a character string element only when the
// column holds a non-blank value.
func optionalCharString(parent *Element, prefix, local string, ns sql.NullString) {
	if value := text(ns); value != "" {
		charString(parent, prefix, local, value)
	}
}

// nilElement appends an empty element carrying the missing nil-reason.
func nilElement(parent *Element, prefix, local string) {
	parent.Child(prefix, local).SetAttr("gco:nilReason", nilReasonMissing)
}

// codeElement appends <prefix:local><codePrefix:codeLocal codeList=...
// codeListValue=value>value</...> in the profile's code list shape.
func codeElement(parent *Element, prefix, local, codePrefix, codeLocal, codeList, value string) {
	parent.Child(prefix, local).
		Child(codePrefix, codeLocal).
		SetAttr("codeList", codeList).
		SetAttr("codeListValue", value).
		SetText(value)
}

func buildFileIdentifier(root *Element, b *catalog.Bundle) {
	charString(root, "gmd", "fileIdentifier", CleanText(b.ID))
}

func buildLanguage(root *Element, languageCode string) {
	root.Child("gmd", "language").
		Child("gmd", "LanguageCode").
		SetAttr("codeList", codeListLanguage).
		SetAttr("codeListValue", languageCode).
		SetText(languageCode)
}

func buildCharacterSet(root *Element, characterSet string) {
	// The character set code carries no text node in this profile.
	root.Child("gmd", "characterSet").
		Child("gmd", "MD_CharacterSetCode").
		SetAttr("codeList", codeListCharset).
		SetAttr("codeListValue", characterSet)
}

func buildHierarchyLevel(root *Element, hierarchyLevel string) {
	codeElement(root, "gmd", "hierarchyLevel", "gmd", "MD_ScopeCode", codeListScope, hierarchyLevel)
}

// buildContacts renders one gmd:contact block per bundle contact, in bundle
// order (group contacts first, then main-direct, already deduplicated).
func buildContacts(root *Element, contacts []catalog.Contact) {
	for _, c := range contacts {
		party := root.Child("gmd", "contact").Child("gmd", "CI_ResponsibleParty")
		optionalCharString(party, "gmd", "individualName", c.IndividualName)
		optionalCharString(party, "gmd", "organisationName", c.OrganisationName)
		optionalCharString(party, "gmd", "positionName", c.PositionName)
		buildContactInfo(party, c)

		role := text(c.Role)
		if role == "" {
			role = "pointOfContact"
		}
		codeElement(party, "gmd", "role", "gmd", "CI_RoleCode", codeListRole, role)
	}
}

// buildContactInfo emits the CI_Contact block when the contact carries any
// phone, address, or service detail; otherwise the block is wholly absent.
func buildContactInfo(party *Element, c catalog.Contact) {
	hasPhone := text(c.VoicePhone) != "" || text(c.FacsimilePhone) != ""
	hasAddress := text(c.DeliveryPoint) != "" || text(c.City) != "" ||
		text(c.AdministrativeArea) != "" || text(c.PostalCode) != "" ||
		text(c.Country) != "" || text(c.Email) != ""
	hasService := text(c.HoursOfService) != "" || text(c.Instructions) != ""
	if !hasPhone && !hasAddress && !hasService {
		return
	}

	contactInfo := party.Child("gmd", "contactInfo").Child("gmd", "CI_Contact")

	if hasPhone {
		phone := contactInfo.Child("gmd", "phone").Child("gmd", "CI_Telephone")
		optionalCharString(phone, "gmd", "voice", c.VoicePhone)
		optionalCharString(phone, "gmd", "facsimile", c.FacsimilePhone)
	}

	if hasAddress {
		address := contactInfo.Child("gmd", "address").Child("gmd", "CI_Address")
		optionalCharString(address, "gmd", "deliveryPoint", c.DeliveryPoint)
		optionalCharString(address, "gmd", "city", c.City)
		optionalCharString(address, "gmd", "administrativeArea", c.AdministrativeArea)
		optionalCharString(address, "gmd", "postalCode", c.PostalCode)
		optionalCharString(address, "gmd", "country", c.Country)
		optionalCharString(address, "gmd", "electronicMailAddress", c.Email)
	}

	optionalCharString(contactInfo, "gmd", "hoursOfService", c.HoursOfService)
	optionalCharString(contactInfo, "gmd", "contactInstructions", c.Instructions)
}

// buildDateStamp stamps the document from the options override or the main
// record's publication date. With neither available, or an unparsable
// value, the mandatory slot carries the nil-reason marker.
func buildDateStamp(root *Element, b *catalog.Bundle, opts BuildOptions) {
	value := opts.DateStamp
	if value == "" && b.Main.PublicationDate.Valid {
		value = b.Main.PublicationDate.String
	}
	if formatted, ok := FormatDateOnly(value); ok {
		root.Child("gmd", "dateStamp").Child("gco", "Date").SetText(formatted)
		return
	}
	nilElement(root, "gmd", "dateStamp")
}

func buildReferenceSystem(root *Element, referenceSystem string) {
	code := root.Child("gmd", "referenceSystemInfo").
		Child("gmd", "MD_ReferenceSystem").
		Child("gmd", "referenceSystemIdentifier").
		Child("gmd", "RS_Identifier")
	charString(code, "gmd", "code", referenceSystem)
}

func buildIdentification(root *Element, b *catalog.Bundle) {
	ident := root.Child("gmd", "identificationInfo").Child("gmd", "MD_DataIdentification")

	ciCitation := ident.Child("gmd", "citation").Child("gmd", "CI_Citation")
	charString(ciCitation, "gmd", "title", text(b.Main.Title))
	if b.Citation != nil {
		optionalCharString(ciCitation, "gmd", "alternateTitle", b.Citation.Title)
		buildCitationDate(ciCitation, b.Citation.PubDate)
	}

	// Abstract is mandatory but nilable.
	if abstract := text(b.Main.Abstract); abstract != "" {
		charString(ident, "gmd", "abstract", abstract)
	} else {
		nilElement(ident, "gmd", "abstract")
	}

	// Purpose prefers the group's statement, falling back to the main
	// record's supplemental information.
	if b.Group != nil && text(b.Group.Purpose) != "" {
		charString(ident, "gmd", "purpose", text(b.Group.Purpose))
	} else {
		optionalCharString(ident, "gmd", "purpose", b.Main.SupplementalInformation)
	}

	if status := text(b.Main.StatusProgress); status != "" {
		codeElement(ident, "gmd", "status", "gmd", "MD_ProgressCode", codeListProgress, status)
	}

	buildKeywords(ident, b.Keywords)
	buildConstraints(ident, b.Group)
	buildSpatialRepresentation(ident, b.Main)
	buildExtent(ident, b.Main)
}

// buildCitationDate emits the CI_Date block for a citation publication
// date. An unparsable stored value gets the nil-reason marker; the dateType
// is always present.
func buildCitationDate(ciCitation *Element, pubDate sql.NullString) {
	ciDate := ciCitation.Child("gmd", "date").Child("gmd", "CI_Date")
	if formatted, ok := FormatDateOnly(text(pubDate)); ok {
		ciDate.Child("gmd", "date").Child("gco", "CharacterString").SetText(formatted)
	} else {
		nilElement(ciDate, "gmd", "date")
	}
	codeElement(ciDate, "gmd", "dateType", "gmd", "CI_DateTypeCode", codeListDateType, "publication")
}

// keywordGroup is one descriptiveKeywords block: keywords of one type in
// stored order.
type keywordGroup struct {
	Type     string
	Keywords []string
}

// groupKeywordsByType buckets keywords by type, preserving the stored order
// of both the groups (first-seen) and the keywords within each group. Map
// iteration would be nondeterministic here.
func groupKeywordsByType(keywords []catalog.Keyword) []keywordGroup {
	var groups []keywordGroup
	index := make(map[string]int)
	for _, k := range keywords {
		keywordType := text(k.Type)
		i, ok := index[keywordType]
		if !ok {
			i = len(groups)
			index[keywordType] = i
			groups = append(groups, keywordGroup{Type: keywordType})
		}
		groups[i].Keywords = append(groups[i].Keywords, CleanText(k.Keyword))
	}
	return groups
}

func buildKeywords(ident *Element, keywords []catalog.Keyword) {
	for _, group := range groupKeywordsByType(keywords) {
		mdKeywords := ident.Child("gmd", "descriptiveKeywords").Child("gmd", "MD_Keywords")
		for _, keyword := range group.Keywords {
			charString(mdKeywords, "gmd", "keyword", keyword)
		}
		if group.Type != "" {
			codeElement(mdKeywords, "gmd", "type", "gmd", "MD_KeywordTypeCode", codeListKeywordType, group.Type)
		}
	}
}

// buildConstraints emits use and access constraints from the group. With no
// group, or no constraint values, the subtrees are wholly absent.
func buildConstraints(ident *Element, group *catalog.Group) {
	if group == nil {
		return
	}

	if use := text(group.UseConstraint); use != "" {
		constraints := ident.Child("gmd", "resourceConstraints").Child("gmd", "MD_Constraints")
		charString(constraints, "gmd", "useLimitation", use)
	}

	if access := text(group.AccessConstraint); access != "" {
		legal := ident.Child("gmd", "resourceConstraints").Child("gmd", "MD_LegalConstraints")
		codeElement(legal, "gmd", "accessConstraints", "gmd", "MD_RestrictionCode", codeListRestriction, access)
	}
}

func buildSpatialRepresentation(ident *Element, main catalog.MainRecord) {
	if facing := text(main.Facing); facing != "" {
		codeElement(ident, "gmd", "spatialRepresentationType", "gmd", "MD_SpatialRepresentationTypeCode", codeListSpatialType, facing)
	}
}

// buildExtent emits the geographic bounding box and temporal extent. The
// whole extent subtree is omitted when no bounding coordinate is present.
func buildExtent(ident *Element, main catalog.MainRecord) {
	bounds := []struct {
		Tag   string
		Value sql.NullFloat64
	}{
		{"westBoundLongitude", main.WestBound},
		{"eastBoundLongitude", main.EastBound},
		{"southBoundLatitude", main.SouthBound},
		{"northBoundLatitude", main.NorthBound},
	}

	any := false
	for _, bound := range bounds {
		if bound.Value.Valid {
			any = true
			break
		}
	}
	if !any {
		return
	}

	exExtent := ident.Child("gmd", "extent").Child("gmd", "EX_Extent")
	bbox := exExtent.Child("gmd", "geographicElement").Child("gmd", "EX_GeographicBoundingBox")
	for _, bound := range bounds {
		if !bound.Value.Valid {
			continue
		}
		bbox.Child("gmd", bound.Tag).
			Child("gco", "Decimal").
			SetText(strconv.FormatFloat(bound.Value.Float64, 'f', -1, 64))
	}

	start, startOK := FormatDate(text(main.TemporalFrom))
	end, endOK := FormatDate(text(main.TemporalTo))
	if startOK || endOK {
		period := exExtent.Child("gmd", "temporalElement").
			Child("gmd", "EX_TemporalExtent").
			Child("gml", "TimePeriod")
		if startOK {
			period.Child("gml", "beginPosition").SetText(start)
		}
		if endOK {
			period.Child("gml", "endPosition").SetText(end)
		}
	}
}

func buildDistribution(root *Element, b *catalog.Bundle) {
	format := root.Child("gmd", "distributionInfo").
		Child("gmd", "MD_Distribution").
		Child("gmd", "distributionFormat").
		Child("gmd", "MD_Format")

	name := "Unknown"
	if b.Citation != nil && text(b.Citation.DataForm) != "" {
		name = text(b.Citation.DataForm)
	}
	charString(format, "gmd", "name", name)

	if b.Citation != nil {
		optionalCharString(format, "gmd", "version", b.Citation.Title)
	}
}

func buildDataQuality(root *Element, b *catalog.Bundle) {
	quality := root.Child("gmd", "dataQualityInfo").Child("gmd", "DQ_DataQuality")

	scope := quality.Child("gmd", "scope").Child("gmd", "DQ_Scope")
	codeElement(scope, "gmd", "level", "gmd", "MD_ScopeCode", codeListScope, "dataset")

	conformance := quality.Child("gmd", "report").
		Child("gmd", "DQ_DomainConsistency").
		Child("gmd", "result").
		Child("gmd", "DQ_ConformanceResult")
	accuracy := "No attribute accuracy report supplied."
	if b.Group != nil && text(b.Group.AccuracyReport) != "" {
		accuracy = text(b.Group.AccuracyReport)
	}
	charString(conformance, "gmd", "explanation", accuracy)
	conformance.Child("gmd", "pass").Child("gco", "Boolean").SetText("true")

	lineage := quality.Child("gmd", "lineage").Child("gmd", "LI_Lineage")
	for _, entry := range b.Sources {
		buildLineageSource(lineage, entry)
	}
}

// buildLineageSource emits one gmd:source block. The nested sourceCitation
// subtree appears only when the source's citation resolved during assembly.
func buildLineageSource(lineage *Element, entry catalog.SourceEntry) {
	liSource := lineage.Child("gmd", "source").Child("gmd", "LI_Source")

	optionalCharString(liSource, "gmd", "description", entry.Source.Contribution)

	if scale := text(entry.Source.Scale); scale != "" {
		fraction := liSource.Child("gmd", "sourceScale").Child("gmd", "MD_RepresentativeFraction")
		charString(fraction, "gmd", "denominator", scale)
	}

	if entry.Citation != nil {
		liSource.Child("gmd", "sourceCitation").Append(buildCICitation(entry.Citation))
	}
}

// buildCICitation builds the shared CI_Citation shape used by lineage
// source citations.
func buildCICitation(citation *catalog.Citation) *Element {
	ciCitation := NewElement("gmd", "CI_Citation")
	charString(ciCitation, "gmd", "title", text(citation.Title))

	if text(citation.PubDate) != "" {
		buildCitationDate(ciCitation, citation.PubDate)
	}

	if linkage := text(citation.OnlineLinkage); linkage != "" {
		ciCitation.Child("gmd", "onlineResource").
			Child("gmd", "CI_OnlineResource").
			Child("gmd", "linkage").
			Child("gmd", "URL").
			SetText(linkage)
	}
	return ciCitation
}

// buildExtensionInfo renders the dataset's attribute descriptors. The whole
// section is omitted when there are none.
func buildExtensionInfo(root *Element, attributes []catalog.Attribute) {
	if len(attributes) == 0 {
		return
	}

	extension := root.Child("gmd", "metadataExtensionInfo").
		Child("gmd", "MD_MetadataExtensionInformation")
	for _, a := range attributes {
		info := extension.Child("gmd", "extendedElementInformation")
		optionalCharString(info, "gmd", "name", a.Name)
		optionalCharString(info, "gmd", "shortName", a.Alias)
		optionalCharString(info, "gmd", "definition", a.Definition)
		optionalCharString(info, "gmd", "condition", a.Codeset)
		optionalCharString(info, "gmd", "dataType", a.Type)

		if detail := attributeDetail(a); detail != "" {
			charString(info, "gmd", "description", detail)
		}
	}
}

// attributeDetail summarises width/precision/scale into one description
// line, matching the "width=10; precision=2" shape curators already rely on.
func attributeDetail(a catalog.Attribute) string {
	detail := ""
	appendPart := func(name string, value sql.NullInt64) {
		if !value.Valid {
			return
		}
		if detail != "" {
			detail += "; "
		}
		detail += fmt.Sprintf("%s=%d", name, value.Int64)
	}
	appendPart("width", a.Width)
	appendPart("precision", a.Precision)
	appendPart("scale", a.Scale)
	return detail
}
