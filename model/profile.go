package model

// Profile carries every applicant-supplied field. It is embedded in the
// pending, verified and rejected tables so an approval or rejection copies
// the record wholesale instead of field by field.
type Profile struct {
	FullName           string `gorm:"size:150;not null" json:"full_name"`
	Surname            string `gorm:"size:80;not null" json:"surname"`
	DesiredName        string `gorm:"size:150;not null" json:"desired_name"`
	FatherOrHusband    string `gorm:"size:150;not null" json:"father_or_husband_name"`
	MotherName         string `gorm:"size:150;not null" json:"mother_name"`
	DateOfBirth        string `gorm:"size:20" json:"date_of_birth"`
	Gender             string `gorm:"size:20" json:"gender"`
	BloodGroup         string `gorm:"size:5" json:"blood_group"`
	MaritalStatus      string `gorm:"size:20;not null" json:"marital_status"`
	Gothram            string `gorm:"size:120;not null" json:"gothram"`
	AaradhyaDaiva      string `gorm:"size:120" json:"aaradhya_daiva"`
	KulaDevata         string `gorm:"size:120" json:"kula_devata"`
	Education          string `gorm:"size:120;not null" json:"education"`
	Occupation         string `gorm:"size:120;not null" json:"occupation"`
	CurrentHouseNumber string `gorm:"size:60" json:"current_house_number"`
	CurrentVillageCity string `gorm:"size:120" json:"current_village_city"`
	CurrentMandal      string `gorm:"size:120" json:"current_mandal"`
	CurrentDistrict    string `gorm:"size:120;not null" json:"current_district"`
	CurrentState       string `gorm:"size:120;not null" json:"current_state"`
	CurrentCountry     string `gorm:"size:120;default:India" json:"current_country"`
	CurrentPinCode     string `gorm:"size:10;not null" json:"current_pin_code"`
	NativeHouseNumber  string `gorm:"size:60" json:"native_house_number"`
	NativeVillageCity  string `gorm:"size:120" json:"native_village_city"`
	NativeMandal       string `gorm:"size:120" json:"native_mandal"`
	NativeDistrict     string `gorm:"size:120;not null" json:"native_district"`
	NativeState        string `gorm:"size:120;not null" json:"native_state"`
	NativeCountry      string `gorm:"size:120;default:India" json:"native_country"`
	NativePinCode      string `gorm:"size:10;not null" json:"native_pin_code"`
	PhotoURL           string `gorm:"type:text" json:"photo_url"`
	ReferredByName     string `gorm:"size:150;not null" json:"referred_by_name"`
	ReferredMobile     string `gorm:"size:10;not null" json:"referred_mobile"`
	Feedback           string `gorm:"type:text" json:"feedback"`
}
