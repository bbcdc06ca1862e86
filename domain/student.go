package domain

// CREATE TABLE dataset_mahasiswa (
//     npm_mahasiswa   VARCHAR(20) PRIMARY KEY,
//     nama_mahasiswa  TEXT NOT NULL,
//     program_studi   TEXT,
//     angkatan        INT,
//     password_hash   TEXT,
//     role            VARCHAR(20) DEFAULT 'student'
// );

type Student struct {
	StudentID    string `gorm:"column:npm_mahasiswa;primaryKey" json:"npm_mahasiswa"`
	Name         string `gorm:"column:nama_mahasiswa;not null" json:"nama_mahasiswa"`
	StudyProgram string `gorm:"column:program_studi" json:"program_studi"`
	Cohort       int    `gorm:"column:angkatan" json:"angkatan"`
	PasswordHash string `gorm:"column:password_hash" json:"-"`
	Role         string `gorm:"column:role;default:student" json:"role"`
}

func (Student) TableName() string {
	return "dataset_mahasiswa"
}
