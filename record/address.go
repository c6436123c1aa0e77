package record

import "github.com/zyncd/zyncd/schema"

// PostalAddress is one of an Address record's three postal addresses.
type PostalAddress struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// Address is an address book entry. Beyond the common fields it carries
// a large flat set of string fields, supplemented from
// original_source/src/zdata_lib/AddrBookItemType.hh per SPEC_FULL.md
// §4.F, since the distilled abbreviation table only names fields shared
// with Todo/Calendar.
type Address struct {
	Base

	FullName        string
	FullNameReading string
	TermOfRespect   string

	LastName         string
	FirstName        string
	MiddleName       string
	Title            string
	Suffix           string
	AlternateName    string
	LastNameReading  string
	FirstNameReading string

	Company        string
	CompanyReading string
	Department     string
	JobTitle       string
	Office         string
	Profession     string
	Assistant      string
	Manager        string

	Home  PostalAddress
	Work  PostalAddress
	Other PostalAddress

	HomeWebPage string
	WorkWebPage string

	Email1       string
	Email2       string
	Email3       string
	DefaultEmail string

	PhoneHome   string
	PhoneWork   string
	PhoneMobile string
	PhoneFax    string
	PhonePager  string
	Cellular    string

	Spouse      string
	Gender      string
	Birthday    string
	Anniversary string
	Nickname    string
	Children    string
	Group       string

	URL   string
	Notes string
}

func (a *Address) Common() *Base { return &a.Base }
func (a *Address) Kind() Kind    { return KindAddress }

// Address-specific abbreviations. These are not part of the observed
// Todo/Calendar table in §4.F; they follow the same 4-character ASCII
// convention and are treated as opaque by any peer that doesn't bind
// them, consistent with "any abbreviation not in the table is
// round-tripped but treated as opaque."
const (
	abbrevLastName         = "LNAM"
	abbrevFirstName        = "FNAM"
	abbrevMiddleName       = "MNAM"
	abbrevTitle            = "NTTL"
	abbrevSuffix           = "SUFX"
	abbrevLastNameReading  = "LNRD"
	abbrevFirstNameReading = "FNRD"
	abbrevCompany          = "CMPY"
	abbrevDepartment       = "DEPT"
	abbrevJobTitle         = "JTTL"
	abbrevHomeStreet       = "HAST"
	abbrevHomeCity         = "HACT"
	abbrevHomeState        = "HAS2"
	abbrevHomeZip          = "HAZP"
	abbrevHomeCountry      = "HACN"
	abbrevWorkStreet       = "WAST"
	abbrevWorkCity         = "WACT"
	abbrevWorkState        = "WAS2"
	abbrevWorkZip          = "WAZP"
	abbrevWorkCountry      = "WACN"
	abbrevOtherStreet      = "OAST"
	abbrevOtherCity        = "OACT"
	abbrevOtherState       = "OAS2"
	abbrevOtherZip         = "OAZP"
	abbrevOtherCountry     = "OACN"
	abbrevEmail1           = "EML1"
	abbrevEmail2           = "EML2"
	abbrevEmail3           = "EML3"
	abbrevPhoneHome        = "PHHM"
	abbrevPhoneWork        = "PHWK"
	abbrevPhoneMobile      = "PHMB"
	abbrevPhoneFax         = "PHFX"
	abbrevPhonePager       = "PHPG"
	abbrevURL              = "URLX"

	// Supplemented from original_source's AddrBookItemType field set
	// (§4.F Address supplement); exact wire abbreviations for these were
	// not present in the retrieved RDI traces, so these follow the same
	// 4-char convention as the observed fields above and round-trip as
	// opaque against any device that doesn't offer them.
	abbrevFullName        = "FULN"
	abbrevFullNameReading = "FLRD"
	abbrevTermOfRespect   = "TORP"
	abbrevAlternateName   = "ALTN"
	abbrevCompanyReading  = "CMRD"
	abbrevOffice          = "OFFC"
	abbrevProfession      = "PROF"
	abbrevAssistant       = "ASST"
	abbrevManager         = "MNGR"
	abbrevHomeWebPage     = "HWEB"
	abbrevWorkWebPage     = "WWEB"
	abbrevDefaultEmail    = "EMLD"
	abbrevCellular        = "CELL"
	abbrevSpouse          = "SPUS"
	abbrevGender          = "GNDR"
	abbrevBirthday        = "BDAY"
	abbrevAnniversary     = "ANIV"
	abbrevNickname        = "NICK"
	abbrevChildren        = "CHLD"
	abbrevGroup           = "GRUP"
)

// DecodeAddress reads an Address's fields from tape against s.
func DecodeAddress(s schema.Schema, tape []byte) (*Address, error) {
	r := schema.NewReader(s, tape)
	a := &Address{}
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		abbrev := f.Descriptor.String()
		if applyCommonField(&a.Base, abbrev, f) {
			continue
		}
		switch abbrev {
		case "MEM1":
			a.Notes = f.String()
		case abbrevFullName:
			a.FullName = f.String()
		case abbrevFullNameReading:
			a.FullNameReading = f.String()
		case abbrevTermOfRespect:
			a.TermOfRespect = f.String()
		case abbrevAlternateName:
			a.AlternateName = f.String()
		case abbrevCompanyReading:
			a.CompanyReading = f.String()
		case abbrevOffice:
			a.Office = f.String()
		case abbrevProfession:
			a.Profession = f.String()
		case abbrevAssistant:
			a.Assistant = f.String()
		case abbrevManager:
			a.Manager = f.String()
		case abbrevHomeWebPage:
			a.HomeWebPage = f.String()
		case abbrevWorkWebPage:
			a.WorkWebPage = f.String()
		case abbrevDefaultEmail:
			a.DefaultEmail = f.String()
		case abbrevCellular:
			a.Cellular = f.String()
		case abbrevSpouse:
			a.Spouse = f.String()
		case abbrevGender:
			a.Gender = f.String()
		case abbrevBirthday:
			a.Birthday = f.String()
		case abbrevAnniversary:
			a.Anniversary = f.String()
		case abbrevNickname:
			a.Nickname = f.String()
		case abbrevChildren:
			a.Children = f.String()
		case abbrevGroup:
			a.Group = f.String()
		case abbrevLastName:
			a.LastName = f.String()
		case abbrevFirstName:
			a.FirstName = f.String()
		case abbrevMiddleName:
			a.MiddleName = f.String()
		case abbrevTitle:
			a.Title = f.String()
		case abbrevSuffix:
			a.Suffix = f.String()
		case abbrevLastNameReading:
			a.LastNameReading = f.String()
		case abbrevFirstNameReading:
			a.FirstNameReading = f.String()
		case abbrevCompany:
			a.Company = f.String()
		case abbrevDepartment:
			a.Department = f.String()
		case abbrevJobTitle:
			a.JobTitle = f.String()
		case abbrevHomeStreet:
			a.Home.Street = f.String()
		case abbrevHomeCity:
			a.Home.City = f.String()
		case abbrevHomeState:
			a.Home.State = f.String()
		case abbrevHomeZip:
			a.Home.Zip = f.String()
		case abbrevHomeCountry:
			a.Home.Country = f.String()
		case abbrevWorkStreet:
			a.Work.Street = f.String()
		case abbrevWorkCity:
			a.Work.City = f.String()
		case abbrevWorkState:
			a.Work.State = f.String()
		case abbrevWorkZip:
			a.Work.Zip = f.String()
		case abbrevWorkCountry:
			a.Work.Country = f.String()
		case abbrevOtherStreet:
			a.Other.Street = f.String()
		case abbrevOtherCity:
			a.Other.City = f.String()
		case abbrevOtherState:
			a.Other.State = f.String()
		case abbrevOtherZip:
			a.Other.Zip = f.String()
		case abbrevOtherCountry:
			a.Other.Country = f.String()
		case abbrevEmail1:
			a.Email1 = f.String()
		case abbrevEmail2:
			a.Email2 = f.String()
		case abbrevEmail3:
			a.Email3 = f.String()
		case abbrevPhoneHome:
			a.PhoneHome = f.String()
		case abbrevPhoneWork:
			a.PhoneWork = f.String()
		case abbrevPhoneMobile:
			a.PhoneMobile = f.String()
		case abbrevPhoneFax:
			a.PhoneFax = f.String()
		case abbrevPhonePager:
			a.PhonePager = f.String()
		case abbrevURL:
			a.URL = f.String()
		}
	}
	return a, nil
}

// EncodeAddress writes a's fields as tape against s.
func EncodeAddress(a *Address, s schema.Schema) []byte {
	w := schema.NewWriter()
	for _, d := range s.Descriptors {
		abbrev := d.String()
		if writeCommonField(&a.Base, abbrev, w) {
			continue
		}
		switch abbrev {
		case "MEM1":
			w.WriteString(a.Notes)
		case abbrevFullName:
			w.WriteString(a.FullName)
		case abbrevFullNameReading:
			w.WriteString(a.FullNameReading)
		case abbrevTermOfRespect:
			w.WriteString(a.TermOfRespect)
		case abbrevAlternateName:
			w.WriteString(a.AlternateName)
		case abbrevCompanyReading:
			w.WriteString(a.CompanyReading)
		case abbrevOffice:
			w.WriteString(a.Office)
		case abbrevProfession:
			w.WriteString(a.Profession)
		case abbrevAssistant:
			w.WriteString(a.Assistant)
		case abbrevManager:
			w.WriteString(a.Manager)
		case abbrevHomeWebPage:
			w.WriteString(a.HomeWebPage)
		case abbrevWorkWebPage:
			w.WriteString(a.WorkWebPage)
		case abbrevDefaultEmail:
			w.WriteString(a.DefaultEmail)
		case abbrevCellular:
			w.WriteString(a.Cellular)
		case abbrevSpouse:
			w.WriteString(a.Spouse)
		case abbrevGender:
			w.WriteString(a.Gender)
		case abbrevBirthday:
			w.WriteString(a.Birthday)
		case abbrevAnniversary:
			w.WriteString(a.Anniversary)
		case abbrevNickname:
			w.WriteString(a.Nickname)
		case abbrevChildren:
			w.WriteString(a.Children)
		case abbrevGroup:
			w.WriteString(a.Group)
		case abbrevLastName:
			w.WriteString(a.LastName)
		case abbrevFirstName:
			w.WriteString(a.FirstName)
		case abbrevMiddleName:
			w.WriteString(a.MiddleName)
		case abbrevTitle:
			w.WriteString(a.Title)
		case abbrevSuffix:
			w.WriteString(a.Suffix)
		case abbrevLastNameReading:
			w.WriteString(a.LastNameReading)
		case abbrevFirstNameReading:
			w.WriteString(a.FirstNameReading)
		case abbrevCompany:
			w.WriteString(a.Company)
		case abbrevDepartment:
			w.WriteString(a.Department)
		case abbrevJobTitle:
			w.WriteString(a.JobTitle)
		case abbrevHomeStreet:
			w.WriteString(a.Home.Street)
		case abbrevHomeCity:
			w.WriteString(a.Home.City)
		case abbrevHomeState:
			w.WriteString(a.Home.State)
		case abbrevHomeZip:
			w.WriteString(a.Home.Zip)
		case abbrevHomeCountry:
			w.WriteString(a.Home.Country)
		case abbrevWorkStreet:
			w.WriteString(a.Work.Street)
		case abbrevWorkCity:
			w.WriteString(a.Work.City)
		case abbrevWorkState:
			w.WriteString(a.Work.State)
		case abbrevWorkZip:
			w.WriteString(a.Work.Zip)
		case abbrevWorkCountry:
			w.WriteString(a.Work.Country)
		case abbrevOtherStreet:
			w.WriteString(a.Other.Street)
		case abbrevOtherCity:
			w.WriteString(a.Other.City)
		case abbrevOtherState:
			w.WriteString(a.Other.State)
		case abbrevOtherZip:
			w.WriteString(a.Other.Zip)
		case abbrevOtherCountry:
			w.WriteString(a.Other.Country)
		case abbrevEmail1:
			w.WriteString(a.Email1)
		case abbrevEmail2:
			w.WriteString(a.Email2)
		case abbrevEmail3:
			w.WriteString(a.Email3)
		case abbrevPhoneHome:
			w.WriteString(a.PhoneHome)
		case abbrevPhoneWork:
			w.WriteString(a.PhoneWork)
		case abbrevPhoneMobile:
			w.WriteString(a.PhoneMobile)
		case abbrevPhoneFax:
			w.WriteString(a.PhoneFax)
		case abbrevPhonePager:
			w.WriteString(a.PhonePager)
		case abbrevURL:
			w.WriteString(a.URL)
		default:
			w.WriteAbsent()
		}
	}
	return w.Bytes()
}
